package service

import (
	"context"
	"errors"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

// reportTimeFormat matches the export format of the asset report.
const reportTimeFormat = "2006-01-02 15:04"

// notAvailable fills report cells that have no value.
const notAvailable = "N/A"

// ReportHeader is the fixed column order of the asset report.
var ReportHeader = []string{
	"Serial Number",
	"Display Name",
	"Department",
	"Model Category",
	"Status",
	"Company",
	"Assigned User",
	"Employee ID",
	"Assigned Date",
	"Returned Date",
}

// ReportRow is one exported line, one per asset, in ReportHeader order.
type ReportRow struct {
	SerialNumber  string
	DisplayName   string
	Department    string
	ModelCategory string
	Status        string
	Company       string
	AssignedUser  string
	EmployeeID    string
	AssignedDate  string
	ReturnedDate  string
}

// Values returns the row cells in header order.
func (r ReportRow) Values() []string {
	return []string{
		r.SerialNumber,
		r.DisplayName,
		r.Department,
		r.ModelCategory,
		r.Status,
		r.Company,
		r.AssignedUser,
		r.EmployeeID,
		r.AssignedDate,
		r.ReturnedDate,
	}
}

// ReportService projects filtered assets plus their assignment history into
// the tabular export. Writing the actual spreadsheet bytes is someone else's
// job.
type ReportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) *ReportService {
	return &ReportService{store: store}
}

// Rows builds the report, ordered by serial number ascending. Admin or asset
// incharge only.
func (s *ReportService) Rows(ctx context.Context, actor Actor, opts ListOptions) ([]ReportRow, error) {
	if !isAdminOrIncharge(actor.Role()) {
		return nil, ErrPermissionDenied
	}

	stores := s.store.Stores()
	assets, err := stores.Assets.List(ctx, repository.AssetFilter{
		Search:        opts.Search,
		Status:        opts.Status,
		Category:      opts.Category,
		OrderBySerial: true,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(assets))
	for i := range assets {
		row, err := s.projectRow(ctx, stores, &assets[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ReportService) projectRow(ctx context.Context, stores repository.Stores, asset *domain.Asset) (ReportRow, error) {
	row := ReportRow{
		SerialNumber:  asset.SerialNumber,
		DisplayName:   asset.DisplayName,
		Department:    asset.Department,
		ModelCategory: asset.ModelCategory.Label(),
		Status:        asset.Status.Label(),
		Company:       asset.Company,
		AssignedUser:  notAvailable,
		EmployeeID:    notAvailable,
		AssignedDate:  notAvailable,
		ReturnedDate:  notAvailable,
	}

	if asset.AssignedUserID != nil {
		user, err := stores.Users.GetByID(ctx, *asset.AssignedUserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return ReportRow{}, err
		}
		if user != nil {
			row.AssignedUser = user.FullName()
		}
		profile, err := stores.Profiles.GetByUserID(ctx, *asset.AssignedUserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return ReportRow{}, err
		}
		if profile != nil {
			row.EmployeeID = profile.EmployeeID
		}
	}

	latest, err := stores.Assignments.LatestByAsset(ctx, asset.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return row, nil
		}
		return ReportRow{}, err
	}
	row.AssignedDate = latest.AssignedDate.Format(reportTimeFormat)
	if latest.ReturnedDate != nil {
		row.ReturnedDate = latest.ReturnedDate.Format(reportTimeFormat)
	}
	return row, nil
}
