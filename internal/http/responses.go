package http

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/storage"
)

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type AssetResponse struct {
	ID             int64   `json:"id"`
	SerialNumber   string  `json:"serial_number"`
	DisplayName    string  `json:"display_name"`
	Department     string  `json:"department"`
	ModelCategory  string  `json:"model_category"`
	CategoryLabel  string  `json:"category_label"`
	Status         string  `json:"status"`
	StatusLabel    string  `json:"status_label"`
	Company        string  `json:"company"`
	AssignedUserID *int64  `json:"assigned_user_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type AssignmentResponse struct {
	ID           int64   `json:"id"`
	AssetID      int64   `json:"asset_id"`
	AssignedTo   int64   `json:"assigned_to"`
	AssignedBy   int64   `json:"assigned_by"`
	AssignedDate string  `json:"assigned_date"`
	ReturnedDate *string `json:"returned_date,omitempty"`
	Notes        string  `json:"notes"`
}

type ReportObjectResponse struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified,omitempty"`
	URL          string `json:"url,omitempty"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName(),
		Email:    user.Email,
	}
}

func assetToResponse(asset domain.Asset) AssetResponse {
	return AssetResponse{
		ID:             asset.ID,
		SerialNumber:   asset.SerialNumber,
		DisplayName:    asset.DisplayName,
		Department:     asset.Department,
		ModelCategory:  string(asset.ModelCategory),
		CategoryLabel:  asset.ModelCategory.Label(),
		Status:         string(asset.Status),
		StatusLabel:    asset.Status.Label(),
		Company:        asset.Company,
		AssignedUserID: asset.AssignedUserID,
		CreatedAt:      asset.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      asset.UpdatedAt.Format(time.RFC3339),
	}
}

func assignmentToResponse(a domain.AssetAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID,
		AssetID:      a.AssetID,
		AssignedTo:   a.AssignedTo,
		AssignedBy:   a.AssignedBy,
		AssignedDate: a.AssignedDate.Format(time.RFC3339),
		Notes:        a.Notes,
	}
	if a.ReturnedDate != nil {
		s := a.ReturnedDate.Format(time.RFC3339)
		resp.ReturnedDate = &s
	}
	return resp
}

func reportObjectToResponse(obj storage.ObjectInfo, url string) ReportObjectResponse {
	resp := ReportObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
		URL:  url,
	}
	if obj.LastModified != nil {
		resp.LastModified = obj.LastModified.Format(time.RFC3339)
	}
	return resp
}

func newRequestID() string {
	return uuid.NewString()
}

// archiveObjectName yields a unique, sortable object name for an archived
// report.
func archiveObjectName(at time.Time) string {
	return fmt.Sprintf("asset_report_%s_%s.xlsx", at.UTC().Format("20060102T150405"), uuid.NewString()[:8])
}
