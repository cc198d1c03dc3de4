package experts

import (
	"context"
	"strings"

	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type queryAPI interface {
	SubmitQuery(ctx context.Context, body any) (*upstream.ExpertQuery, error)
	QueryHistory(ctx context.Context, userID string) ([]upstream.ExpertQuery, error)
	AnswerQuery(ctx context.Context, queryID string, body any) (*upstream.ExpertQuery, error)
}

// Service routes farming questions between buyers and agricultural experts
// through the core API.
type Service struct {
	api queryAPI
}

func NewService(api queryAPI) *Service {
	return &Service{api: api}
}

type submitBody struct {
	UserID   string `json:"userId"`
	Question string `json:"question"`
}

type answerBody struct {
	Answer string `json:"answer"`
}

// Submit files a buyer's question.
func (s *Service) Submit(ctx context.Context, userID, question string) (*upstream.ExpertQuery, error) {
	if strings.TrimSpace(question) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}
	return s.api.SubmitQuery(ctx, submitBody{UserID: userID, Question: strings.TrimSpace(question)})
}

// History lists the buyer's previous questions and any answers.
func (s *Service) History(ctx context.Context, userID string) ([]upstream.ExpertQuery, error) {
	list, err := s.api.QueryHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []upstream.ExpertQuery{}
	}
	return list, nil
}

// Answer records an expert's response to an open question.
func (s *Service) Answer(ctx context.Context, queryID, answer string) (*upstream.ExpertQuery, error) {
	if strings.TrimSpace(queryID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query id is required")
	}
	if strings.TrimSpace(answer) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "answer is required")
	}
	return s.api.AnswerQuery(ctx, queryID, answerBody{Answer: strings.TrimSpace(answer)})
}
