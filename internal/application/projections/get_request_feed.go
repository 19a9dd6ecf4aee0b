package projections

import (
	"context"
	"sort"

	"donorhub/internal/application/listutil"
	"donorhub/internal/domain/request"
)

// RequestReader defines the coordination API surface for request reads.
type RequestReader interface {
	ListRequests(ctx context.Context, token string) ([]request.BloodRequest, error)
}

// RequestSortColumns are the columns the request feed accepts in sort params.
var RequestSortColumns = []string{"created", "urgency", "blood_type"}

// RequestFilterKeys are the filter params the request feed recognises.
var RequestFilterKeys = []string{"blood_type", "urgency", "active"}

// GetRequestFeedQuery carries query parameters.
type GetRequestFeedQuery struct {
	Params listutil.Params
	Token  string
}

// GetRequestFeedResult carries the query result.
type GetRequestFeedResult struct {
	Requests []request.BloodRequest
	PageInfo listutil.PageInfo
	Active   int // active requests across all matches
}

// GetRequestFeedDeps holds dependencies for GetRequestFeed.
type GetRequestFeedDeps struct {
	API RequestReader
}

// QueryGetRequestFeed retrieves blood requests, newest first by default.
// PRE: query.Token is the caller's remote access token
// POST: Returns one page of matching requests
func QueryGetRequestFeed(ctx context.Context, query GetRequestFeedQuery, deps GetRequestFeedDeps) (GetRequestFeedResult, error) {
	requests, err := deps.API.ListRequests(ctx, query.Token)
	if err != nil {
		return GetRequestFeedResult{}, err
	}

	matched := make([]request.BloodRequest, 0, len(requests))
	active := 0
	for _, r := range requests {
		if !matchesRequest(r, query.Params) {
			continue
		}
		if r.IsActive {
			active++
		}
		matched = append(matched, r)
	}

	sortRequests(matched, query.Params)

	info := listutil.NewPageInfo(query.Params.Page, query.Params.PerPage, len(matched))
	return GetRequestFeedResult{
		Requests: listutil.Page(matched, info),
		PageInfo: info,
		Active:   active,
	}, nil
}

func matchesRequest(r request.BloodRequest, p listutil.Params) bool {
	if v, ok := p.Filters["blood_type"]; ok && r.BloodType != v {
		return false
	}
	if v, ok := p.Filters["urgency"]; ok && r.Urgency != v {
		return false
	}
	if v, ok := p.Filters["active"]; ok {
		if (v == "yes") != r.IsActive {
			return false
		}
	}
	return true
}

func sortRequests(rows []request.BloodRequest, p listutil.Params) {
	var less func(i, j int) bool
	switch p.Sort {
	case "urgency":
		// High urgency first, then newest.
		less = func(i, j int) bool {
			if rows[i].IsHighUrgency() != rows[j].IsHighUrgency() {
				return rows[i].IsHighUrgency()
			}
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
	case "blood_type":
		less = func(i, j int) bool { return rows[i].BloodType < rows[j].BloodType }
	default:
		// Newest first is the feed's natural order.
		less = func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) }
	}
	if p.Sort != "" && p.Dir == "desc" {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	sort.SliceStable(rows, less)
}
