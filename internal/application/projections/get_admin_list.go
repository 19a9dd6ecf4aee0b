package projections

import (
	"context"
	"sort"
	"strings"

	"donorhub/internal/domain/admin"
)

// AdminReader defines the coordination API surface for admin reads.
type AdminReader interface {
	ListAdmins(ctx context.Context, token string) ([]admin.Account, error)
}

// AdminEntry is one row of the admin list.
type AdminEntry struct {
	admin.Account
	IsSelf bool // the signed-in admin's own account
}

// GetAdminListQuery carries query parameters.
type GetAdminListQuery struct {
	Token          string
	CallerPhone    string
	CallerUsername string
}

// GetAdminListResult carries the query result.
type GetAdminListResult struct {
	Admins []AdminEntry
}

// GetAdminListDeps holds dependencies for GetAdminList.
type GetAdminListDeps struct {
	API AdminReader
}

// QueryGetAdminList retrieves admin accounts sorted by username, with
// the caller's own account flagged so it can be shielded from removal.
// PRE: query.Token is the caller's remote access token
// POST: Returns all admin accounts; exactly the caller's row has IsSelf set
func QueryGetAdminList(ctx context.Context, query GetAdminListQuery, deps GetAdminListDeps) (GetAdminListResult, error) {
	accounts, err := deps.API.ListAdmins(ctx, query.Token)
	if err != nil {
		return GetAdminListResult{}, err
	}

	entries := make([]AdminEntry, 0, len(accounts))
	for _, a := range accounts {
		self := (a.PhoneNumber != "" && a.PhoneNumber == query.CallerPhone) ||
			(a.Username != "" && a.Username == query.CallerUsername)
		entries = append(entries, AdminEntry{Account: a, IsSelf: self})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Username) < strings.ToLower(entries[j].Username)
	})
	return GetAdminListResult{Admins: entries}, nil
}
