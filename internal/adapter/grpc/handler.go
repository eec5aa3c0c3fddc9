package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/query"
	"github.com/lukegrady1/Roomify/internal/search/usecase"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const campusSuggestionLimit = 8

type Searcher interface {
	Search(ctx context.Context, in usecase.SearchInput) (*usecase.SearchResult, error)
	SearchCampuses(ctx context.Context, text string, limit int) []domain.Campus
	CampusBySlug(slug string) (*domain.Campus, error)
}

// SearchHandler implements SearchServiceServer.
type SearchHandler struct {
	search Searcher
	logger *logger.Logger
}

func NewSearchHandler(search Searcher, log *logger.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: log.Named("SearchGRPCHandler")}
}

// Search accepts the same query string as GET /api/search, page and limit
// included.
func (h *SearchHandler) Search(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(req.GetValue(), "?"))
	if err != nil {
		h.logger.Debug("query string partially malformed", zap.Error(err))
	}

	res, err := h.search.Search(ctx, usecase.SearchInput{
		Filters: query.FromValues(values),
		UserID:  auth.UserIDFromContext(ctx),
		Page:    atoi(values.Get("page")),
		Limit:   atoi(values.Get("limit")),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (h *SearchHandler) SearchCampuses(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	campuses := h.search.SearchCampuses(ctx, req.GetValue(), campusSuggestionLimit)
	return toStruct(map[string]interface{}{"campuses": campuses})
}

func (h *SearchHandler) GetCampus(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	c, err := h.search.CampusBySlug(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(c)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, domain.ErrInvalidListingID):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// toStruct goes through JSON so the Struct matches the HTTP payload.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
