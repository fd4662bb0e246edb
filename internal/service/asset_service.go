package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/policy"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
)

// CreateAssetInput is the payload for registering a new asset. Status is not
// part of it: new assets always start out available.
type CreateAssetInput struct {
	SerialNumber  string
	DisplayName   string
	Department    string
	ModelCategory domain.AssetCategory
	Company       string
}

// AssetChanges is a sparse change set for the edit operation. Nil fields are
// "unchanged" — a locked field omitted by the caller is never cleared.
type AssetChanges struct {
	DisplayName   *string
	Department    *string
	ModelCategory *domain.AssetCategory
	Status        *domain.AssetStatus
	Company       *string
}

// ListOptions narrows the asset listing. Visibility is decided by the
// caller's role, not by these options.
type ListOptions struct {
	Search   string
	Status   domain.AssetStatus
	Category domain.AssetCategory
}

// DashboardStats summarizes the fleet for the dashboard, scoped to the
// caller's role.
type DashboardStats struct {
	TotalAssets       int64
	AssignedAssets    int64
	AvailableAssets   int64
	MaintenanceAssets int64
	RecentAssignments []domain.AssetAssignment
}

// AssetService is the asset lifecycle engine. Every mutation runs in a
// single store transaction so status writes and their ledger side effects
// land together or not at all.
type AssetService struct {
	store  repository.Store
	logger *logrus.Logger
}

func NewAssetService(store repository.Store, logger *logrus.Logger) *AssetService {
	return &AssetService{store: store, logger: logger}
}

// Create registers a new asset. Admin only; the status field is forced to
// available regardless of input.
func (s *AssetService) Create(ctx context.Context, actor Actor, in CreateAssetInput) (*domain.Asset, error) {
	if actor.Role() != domain.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Department = strings.TrimSpace(in.Department)
	in.Company = strings.TrimSpace(in.Company)

	fields := map[string]string{}
	if in.SerialNumber == "" {
		fields["serial_number"] = "this field is required"
	}
	if in.DisplayName == "" {
		fields["display_name"] = "this field is required"
	}
	if in.Department == "" {
		fields["department"] = "this field is required"
	}
	if in.Company == "" {
		fields["company"] = "this field is required"
	}
	if !domain.ValidCategory(in.ModelCategory) {
		fields["model_category"] = fmt.Sprintf("%q is not a valid category", in.ModelCategory)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	asset := &domain.Asset{
		SerialNumber:  in.SerialNumber,
		DisplayName:   in.DisplayName,
		Department:    in.Department,
		ModelCategory: in.ModelCategory,
		Status:        domain.StatusAvailable,
		Company:       in.Company,
	}

	err := s.store.InTx(ctx, func(r repository.Stores) error {
		_, err := r.Assets.Create(ctx, asset)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationError("serial_number", "an asset with this serial number already exists")
		}
		return nil, err
	}
	return asset, nil
}

// Get returns one asset and its assignment history. Regular users may only
// see assets currently assigned to them.
func (s *AssetService) Get(ctx context.Context, actor Actor, serialNumber string) (*domain.Asset, []domain.AssetAssignment, error) {
	stores := s.store.Stores()

	asset, err := stores.Assets.GetBySerial(ctx, serialNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAssetNotFound
		}
		return nil, nil, err
	}

	if !isAdminOrIncharge(actor.Role()) {
		if asset.AssignedUserID == nil || *asset.AssignedUserID != actor.User.ID {
			return nil, nil, ErrPermissionDenied
		}
	}

	history, err := NewLedger(stores.Assignments).History(ctx, asset.ID)
	if err != nil {
		return nil, nil, err
	}
	return asset, history, nil
}

// List returns assets visible to the actor, filtered by the options.
func (s *AssetService) List(ctx context.Context, actor Actor, opts ListOptions) ([]domain.Asset, error) {
	filter := repository.AssetFilter{
		Search:   opts.Search,
		Status:   opts.Status,
		Category: opts.Category,
	}
	if !isAdminOrIncharge(actor.Role()) {
		id := actor.User.ID
		filter.AssignedUserID = &id
	}
	return s.store.Stores().Assets.List(ctx, filter)
}

// Update applies a change set to an existing asset. Only fields the policy
// marks editable for the actor's role are written; everything else keeps its
// stored value. A status change to retired triggers the retirement cascade
// atomically with the write. Returned messages describe cascade side effects.
func (s *AssetService) Update(ctx context.Context, actor Actor, serialNumber string, changes AssetChanges) (*domain.Asset, []string, error) {
	role := actor.Role()
	if !isAdminOrIncharge(role) {
		return nil, nil, ErrPermissionDenied
	}

	fields := policy.FieldsFor(role, false)

	var (
		updated  *domain.Asset
		messages []string
	)
	err := s.store.InTx(ctx, func(r repository.Stores) error {
		asset, err := r.Assets.GetBySerial(ctx, serialNumber)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		prevStatus := asset.Status

		if changes.DisplayName != nil && fields[policy.FieldDisplayName] == policy.Editable {
			asset.DisplayName = strings.TrimSpace(*changes.DisplayName)
		}
		if changes.Department != nil && fields[policy.FieldDepartment] == policy.Editable {
			asset.Department = strings.TrimSpace(*changes.Department)
		}
		if changes.Company != nil && fields[policy.FieldCompany] == policy.Editable {
			asset.Company = strings.TrimSpace(*changes.Company)
		}
		if changes.ModelCategory != nil && fields[policy.FieldModelCategory] == policy.Editable {
			if !domain.ValidCategory(*changes.ModelCategory) {
				return validationError("model_category", fmt.Sprintf("%q is not a valid category", *changes.ModelCategory))
			}
			asset.ModelCategory = *changes.ModelCategory
		}
		if changes.Status != nil && fields[policy.FieldStatus] == policy.Editable {
			if !domain.ValidStatus(*changes.Status) {
				return validationError("status", fmt.Sprintf("%q is not a valid status", *changes.Status))
			}
			asset.Status = *changes.Status
		}

		if asset.Status == domain.StatusRetired {
			msgs, err := s.retire(ctx, r, asset)
			if err != nil {
				return err
			}
			messages = append(messages, msgs...)
		} else if asset.Status != prevStatus &&
			(asset.Status == domain.StatusAssigned || asset.Status == domain.StatusAvailable) {
			// The edit form can flip status without touching the
			// ledger, leaving history inconsistent with the asset
			// row. Inherited behavior; kept, but not kept quiet.
			s.logger.WithFields(logrus.Fields{
				"serial_number": asset.SerialNumber,
				"status":        asset.Status,
				"actor":         actor.User.Username,
			}).Warn("status edited directly, assignment ledger not updated")
		}

		if err := r.Assets.Update(ctx, asset); err != nil {
			return err
		}
		updated = asset
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, messages, nil
}

// retire clears the holder and closes every open ledger row for the asset.
// Runs inside the caller's transaction.
func (s *AssetService) retire(ctx context.Context, r repository.Stores, asset *domain.Asset) ([]string, error) {
	var messages []string

	if asset.AssignedUserID != nil {
		asset.AssignedUserID = nil
		messages = append(messages, fmt.Sprintf("Asset %s was unassigned as its status changed to Retired.", asset.SerialNumber))
	}

	ledger := NewLedger(r.Assignments)
	open, err := ledger.OpenAll(ctx, asset.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range open {
		if err := ledger.Close(ctx, &open[i], now, RetirementNote); err != nil {
			return nil, err
		}
		messages = append(messages, fmt.Sprintf("Active assignment for %s was closed due to asset retirement.", asset.SerialNumber))
	}
	return messages, nil
}

// Delete removes an asset and its assignment history. Admin only.
func (s *AssetService) Delete(ctx context.Context, actor Actor, serialNumber string) error {
	if actor.Role() != domain.RoleAdmin {
		return ErrPermissionDenied
	}

	return s.store.InTx(ctx, func(r repository.Stores) error {
		asset, err := r.Assets.GetBySerial(ctx, serialNumber)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		return r.Assets.Delete(ctx, asset.ID)
	})
}

// Assign hands the asset to a role=user account and records the custody
// event. Asset incharge only. Assigning an asset that is already assigned is
// rejected rather than silently stacking a second open ledger row.
func (s *AssetService) Assign(ctx context.Context, actor Actor, serialNumber string, assignedTo int64, notes string) (*domain.AssetAssignment, error) {
	if actor.Role() != domain.RoleAssetIncharge {
		return nil, ErrPermissionDenied
	}

	var assignment *domain.AssetAssignment
	err := s.store.InTx(ctx, func(r repository.Stores) error {
		asset, err := r.Assets.GetBySerial(ctx, serialNumber)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAssetNotFound
			}
			return err
		}

		if asset.Status == domain.StatusAssigned || asset.AssignedUserID != nil {
			return validationError("asset", "asset is already assigned; return it first")
		}
		if asset.Status == domain.StatusRetired {
			return validationError("asset", "retired assets cannot be assigned")
		}

		if _, err := r.Users.GetByID(ctx, assignedTo); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return validationError("assigned_to", "no such user")
			}
			return err
		}
		profile, err := r.Profiles.GetByUserID(ctx, assignedTo)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return validationError("assigned_to", "user has no profile")
			}
			return err
		}
		if profile.Role != domain.RoleUser {
			return validationError("assigned_to", "assets may only be assigned to regular users")
		}

		assignment, err = NewLedger(r.Assignments).Record(ctx, asset.ID, assignedTo, actor.User.ID, time.Now(), notes)
		if err != nil {
			return err
		}

		asset.AssignedUserID = &assignedTo
		asset.Status = domain.StatusAssigned
		return r.Assets.Update(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// Return closes the asset's open assignment and makes it available again.
// Asset incharge only. With no open assignment nothing is modified and
// ErrNoActiveAssignment is reported.
func (s *AssetService) Return(ctx context.Context, actor Actor, serialNumber string) (*domain.Asset, error) {
	if actor.Role() != domain.RoleAssetIncharge {
		return nil, ErrPermissionDenied
	}

	var returned *domain.Asset
	err := s.store.InTx(ctx, func(r repository.Stores) error {
		asset, err := r.Assets.GetBySerial(ctx, serialNumber)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAssetNotFound
			}
			return err
		}

		ledger := NewLedger(r.Assignments)
		assignment, err := ledger.Open(ctx, asset.ID)
		if err != nil {
			return err
		}
		if err := ledger.Close(ctx, assignment, time.Now(), ""); err != nil {
			return err
		}

		asset.AssignedUserID = nil
		asset.Status = domain.StatusAvailable
		if err := r.Assets.Update(ctx, asset); err != nil {
			return err
		}
		returned = asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return returned, nil
}

// Dashboard returns fleet statistics scoped to the actor's role: staff see
// the whole fleet, regular users only their own custody.
func (s *AssetService) Dashboard(ctx context.Context, actor Actor) (*DashboardStats, error) {
	stores := s.store.Stores()

	if isAdminOrIncharge(actor.Role()) {
		counts, err := stores.Assets.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		recent, err := stores.Assignments.ListOpen(ctx, nil, 5)
		if err != nil {
			return nil, err
		}
		return &DashboardStats{
			TotalAssets:       counts.Total,
			AssignedAssets:    counts.Assigned,
			AvailableAssets:   counts.Available,
			MaintenanceAssets: counts.Maintenance,
			RecentAssignments: recent,
		}, nil
	}

	mine, err := stores.Assets.CountAssignedTo(ctx, actor.User.ID)
	if err != nil {
		return nil, err
	}
	id := actor.User.ID
	recent, err := stores.Assignments.ListOpen(ctx, &id, 5)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalAssets:       mine,
		AssignedAssets:    mine,
		RecentAssignments: recent,
	}, nil
}

func isAdminOrIncharge(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleAssetIncharge
}
