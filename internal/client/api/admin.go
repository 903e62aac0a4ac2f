package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

func (a *API) AdminStatistics(ctx context.Context) (models.AdminStatistics, error) {
	raw, err := a.get(ctx, "/admin/statistics")
	if err != nil {
		return models.AdminStatistics{}, err
	}
	return decodeRecord(raw, models.AdminStatistics{}), nil
}

func (a *API) AdminUsers(ctx context.Context) ([]models.AdminUser, error) {
	raw, err := a.get(ctx, "/admin/members")
	if err != nil {
		return nil, err
	}
	return decodeList[models.AdminUser](raw), nil
}

func (a *API) SetBanStatus(ctx context.Context, memberID string, status models.BanStatus) (models.AdminUser, error) {
	raw, err := a.call(ctx, http.MethodPatch, "/admin/members/"+seg(memberID)+"/ban-status",
		map[string]models.BanStatus{"banStatus": status})
	if err != nil {
		return models.AdminUser{}, err
	}
	return decodeRecord(raw, models.AdminUser{ID: memberID, BanStatus: status}), nil
}

func (a *API) PendingDocuments(ctx context.Context) ([]models.PendingDocument, error) {
	raw, err := a.get(ctx, "/admin/documents/pending")
	if err != nil {
		return nil, err
	}
	return decodeList[models.PendingDocument](raw), nil
}

// SetDocumentStatus approves (ACTIVE) or rejects (INACTIVE) a pending document.
func (a *API) SetDocumentStatus(ctx context.Context, documentID string, status models.DocumentStatus) (models.Document, error) {
	raw, err := a.call(ctx, http.MethodPatch, "/admin/document/"+seg(documentID)+"/status",
		map[string]models.DocumentStatus{"status": status})
	if err != nil {
		return models.Document{}, err
	}
	return decodeRecord(raw, models.Document{ID: documentID, Status: status}), nil
}
