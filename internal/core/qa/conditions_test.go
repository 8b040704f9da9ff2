// Copyright (c) 2026 Minbar. All rights reserved.

package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListConditions(t *testing.T) {
	where, args := listConditions(Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	answered := true
	where, args = listConditions(Filter{Category: "fiqh", Answered: &answered})
	assert.Equal(t, " AND questioncategory = $1 AND isanswered = $2", where)
	assert.Equal(t, []any{"fiqh", true}, args)
}
