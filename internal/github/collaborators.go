// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// IsCollaborator checks whether a user is a collaborator on a repository.
// GitHub answers 204 for collaborators and 404 for everyone else, so a
// not-found response means false rather than an error.
func (c *Client) IsCollaborator(ctx context.Context, owner, repo, username string) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s/collaborators/%s", owner, repo, url.PathEscape(username))
	_, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking collaborator %s on %s/%s: %w", username, owner, repo, err)
	}
	return true, nil
}
