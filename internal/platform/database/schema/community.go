// Copyright (c) 2026 Minbar. All rights reserved.

package schema

// # Questions & Answers

// CommunityQuestionAnswerTable represents the 'community.questionanswer' table.
type CommunityQuestionAnswerTable struct {
	Table            string
	ID               string
	AskedBy          string
	QuestionCategory string
	Question         string
	DateAsked        string
	IsAnswered       string
	AnsweredBy       string
	Answer           string
	DateAnswered     string
	Likes            string
}

// CommunityQuestionAnswer is the schema definition for community.questionanswer.
var CommunityQuestionAnswer = CommunityQuestionAnswerTable{
	Table:            "community.questionanswer",
	ID:               "id",
	AskedBy:          "askedby",
	QuestionCategory: "questioncategory",
	Question:         "question",
	DateAsked:        "dateasked",
	IsAnswered:       "isanswered",
	AnsweredBy:       "answeredby",
	Answer:           "answer",
	DateAnswered:     "dateanswered",
	Likes:            "likes",
}

// Columns returns all columns in scan order.
func (t CommunityQuestionAnswerTable) Columns() []string {
	return []string{
		t.ID, t.AskedBy, t.QuestionCategory, t.Question, t.DateAsked,
		t.IsAnswered, t.AnsweredBy, t.Answer, t.DateAnswered, t.Likes,
	}
}

// # Articles

// CommunityArticleTable represents the 'community.article' table.
type CommunityArticleTable struct {
	Table         string
	ID            string
	Slug          string
	Title         string
	Body          string
	Category      string
	CoverImageURL string
	AuthorID      string
	Likes         string
	CreatedAt     string
	UpdatedAt     string
}

// CommunityArticle is the schema definition for community.article.
var CommunityArticle = CommunityArticleTable{
	Table:         "community.article",
	ID:            "id",
	Slug:          "slug",
	Title:         "title",
	Body:          "body",
	Category:      "category",
	CoverImageURL: "coverimageurl",
	AuthorID:      "authorid",
	Likes:         "likes",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all columns in scan order.
func (t CommunityArticleTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Body, t.Category, t.CoverImageURL,
		t.AuthorID, t.Likes, t.CreatedAt, t.UpdatedAt,
	}
}

// # Dua Requests

// CommunityDuaRequestTable represents the 'community.duarequest' table.
type CommunityDuaRequestTable struct {
	Table       string
	ID          string
	RequestedBy string
	Title       string
	Body        string
	IsAnonymous string
	PrayerCount string
	CreatedAt   string
	UpdatedAt   string
}

// CommunityDuaRequest is the schema definition for community.duarequest.
var CommunityDuaRequest = CommunityDuaRequestTable{
	Table:       "community.duarequest",
	ID:          "id",
	RequestedBy: "requestedby",
	Title:       "title",
	Body:        "body",
	IsAnonymous: "isanonymous",
	PrayerCount: "prayercount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all columns in scan order.
func (t CommunityDuaRequestTable) Columns() []string {
	return []string{
		t.ID, t.RequestedBy, t.Title, t.Body, t.IsAnonymous,
		t.PrayerCount, t.CreatedAt, t.UpdatedAt,
	}
}

// # Membership Sets

// MembershipTable represents a (entity, user) set such as likes or prayers.
type MembershipTable struct {
	Table        string
	EntityColumn string
	UserID       string
	CreatedAt    string
}

var (
	// CommunityQuestionAnswerLike holds one row per user who liked a question.
	CommunityQuestionAnswerLike = MembershipTable{
		Table:        "community.questionanswerlike",
		EntityColumn: "questionanswerid",
		UserID:       "userid",
		CreatedAt:    "createdat",
	}

	// CommunityArticleLike holds one row per user who liked an article.
	CommunityArticleLike = MembershipTable{
		Table:        "community.articlelike",
		EntityColumn: "articleid",
		UserID:       "userid",
		CreatedAt:    "createdat",
	}

	// CommunityDuaPrayer holds one row per user who prayed for a dua request.
	CommunityDuaPrayer = MembershipTable{
		Table:        "community.duaprayer",
		EntityColumn: "duarequestid",
		UserID:       "userid",
		CreatedAt:    "createdat",
	}
)
