// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"parokicms/internal/github"
)

// IssueCreator files an issue on the content repository. Satisfied by
// *github.Client.
type IssueCreator interface {
	CreateIssue(ctx context.Context, owner, repo string, req github.CreateIssueRequest) (*github.Issue, error)
}

// Contact turns contact form submissions into repository issues, so
// messages reach the maintainers without a mail server.
type Contact struct {
	issues IssueCreator
	owner  string
	repo   string
}

// NewContact creates a new Contact handler.
func NewContact(issues IssueCreator, owner, repo string) *Contact {
	return &Contact{issues: issues, owner: owner, repo: repo}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit validates a contact form submission and files it as an issue.
func (c *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateContact(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
		return
	}

	body := fmt.Sprintf("**Nama:** %s\n**Email:** %s\n\n%s", req.Name, req.Email, req.Message)
	_, err := c.issues.CreateIssue(r.Context(), c.owner, c.repo, github.CreateIssueRequest{
		Title:  "Pesan dari website: " + req.Subject,
		Body:   body,
		Labels: []string{"kontak"},
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondOK(w, "Pesan terkirim. Terima kasih.", nil)
}
