// Package search ranks user accounts against a free text query using an
// in-memory bleve index built per request.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/usersadmin/usersadmin/internal/models"
)

const DefaultLimit = 50

type Request struct {
	Query string `json:"query" form:"q"`
	Limit int    `json:"limit,omitempty" form:"limit"`
}

func (r Request) IsEmpty() bool {
	return len(strings.TrimSpace(r.Query)) == 0
}

type userDocument struct {
	Name       string `json:"name"`
	SurName    string `json:"surName"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Employment string `json:"employment"`
}

func documentFor(user models.User) userDocument {
	return userDocument{
		Name:       user.Name,
		SurName:    user.SurName,
		FullName:   user.GetName(),
		Email:      user.Email,
		Telephone:  user.Telephone,
		Employment: user.Employment.Label(),
	}
}

// Users returns the users matching the request, best match first. An empty
// query returns the input untouched.
func Users(ctx context.Context, users []models.User, req Request) ([]models.User, error) {

	if req.IsEmpty() || len(users) == 0 {
		return users, nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	defer index.Close()

	byID := make(map[string]models.User, len(users))
	batch := index.NewBatch()
	for _, user := range users {
		byID[user.ID] = user
		if err := batch.Index(user.ID, documentFor(user)); err != nil {
			return nil, fmt.Errorf("failed to index user %s: %w", user.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to index users: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	request := bleve.NewSearchRequestOptions(buildQuery(req.Query), limit, 0, false)
	result, err := index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matched := make([]models.User, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if user, ok := byID[hit.ID]; ok {
			matched = append(matched, user)
		}
	}

	return matched, nil
}

// buildQuery matches whole words through the query string syntax
// (e.g. "employment:student") and word prefixes for type-ahead.
func buildQuery(input string) query.Query {

	input = strings.TrimSpace(input)
	queries := []query.Query{bleve.NewQueryStringQuery(input)}

	for _, term := range strings.Fields(strings.ToLower(input)) {
		if strings.ContainsAny(term, ":+-\"") {
			continue
		}
		queries = append(queries, bleve.NewPrefixQuery(term))
	}

	return bleve.NewDisjunctionQuery(queries...)
}
