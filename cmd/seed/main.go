// Command seed loads demo users, assets and assignments into the database so
// the application can be explored right after a fresh install. Safe to run
// repeatedly: existing records are left alone.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/dk8534/Automated-Asset-Management/internal/config"
	"github.com/dk8534/Automated-Asset-Management/internal/domain"
	"github.com/dk8534/Automated-Asset-Management/internal/repository"
	"github.com/dk8534/Automated-Asset-Management/internal/repository/sqlite"
)

type seedUser struct {
	username   string
	password   string
	firstName  string
	lastName   string
	email      string
	role       domain.Role
	employeeID string
	department string
	phone      string
}

var seedUsers = []seedUser{
	{"admin", "admin123", "Admin", "User", "admin@company.com", domain.RoleAdmin, "EMP001", "IT Administration", "+1-555-0001"},
	{"incharge", "incharge123", "Asset", "Manager", "incharge@company.com", domain.RoleAssetIncharge, "EMP002", "IT Operations", "+1-555-0002"},
	{"user1", "user123", "John", "Doe", "john.doe@company.com", domain.RoleUser, "EMP003", "Engineering", "+1-555-0003"},
	{"user2", "user123", "Jane", "Smith", "jane.smith@company.com", domain.RoleUser, "EMP004", "Marketing", "+1-555-0004"},
	{"user3", "user123", "Bob", "Johnson", "bob.johnson@company.com", domain.RoleUser, "EMP005", "Sales", "+1-555-0005"},
	{"user4", "user123", "Alice", "Brown", "alice.brown@company.com", domain.RoleUser, "EMP006", "HR", "+1-555-0006"},
	{"user5", "user123", "Charlie", "Wilson", "charlie.wilson@company.com", domain.RoleUser, "EMP007", "Finance", "+1-555-0007"},
}

type seedAsset struct {
	serial     string
	name       string
	department string
	category   domain.AssetCategory
	status     domain.AssetStatus
	company    string
}

var seedAssets = []seedAsset{
	{"LAP001", "Dell Latitude 7420", "Engineering", domain.CategoryLaptop, domain.StatusAvailable, "Dell Inc."},
	{"LAP002", `MacBook Pro 16"`, "Engineering", domain.CategoryLaptop, domain.StatusAssigned, "Apple Inc."},
	{"LAP003", "ThinkPad X1 Carbon", "Marketing", domain.CategoryLaptop, domain.StatusAssigned, "Lenovo"},
	{"LAP004", "HP EliteBook 840", "Sales", domain.CategoryLaptop, domain.StatusAvailable, "HP Inc."},
	{"LAP005", "Surface Laptop 4", "HR", domain.CategoryLaptop, domain.StatusAssigned, "Microsoft"},
	{"DES001", "Dell OptiPlex 7090", "Finance", domain.CategoryDesktop, domain.StatusAvailable, "Dell Inc."},
	{"DES002", "HP ProDesk 600", "Engineering", domain.CategoryDesktop, domain.StatusAssigned, "HP Inc."},
	{"DES003", `iMac 24"`, "Marketing", domain.CategoryDesktop, domain.StatusAvailable, "Apple Inc."},
	{"MON001", "Dell UltraSharp U2720Q", "Engineering", domain.CategoryMonitor, domain.StatusAssigned, "Dell Inc."},
	{"MON002", "LG 27UK850-W", "Marketing", domain.CategoryMonitor, domain.StatusAvailable, "LG Electronics"},
	{"MON003", "Samsung C27F390", "Sales", domain.CategoryMonitor, domain.StatusAvailable, "Samsung"},
	{"MON004", "ASUS ProArt PA278QV", "Engineering", domain.CategoryMonitor, domain.StatusAssigned, "ASUS"},
	{"PRT001", "HP LaserJet Pro M404n", "Office", domain.CategoryPrinter, domain.StatusAvailable, "HP Inc."},
	{"PRT002", "Canon PIXMA TR8620", "Marketing", domain.CategoryPrinter, domain.StatusAvailable, "Canon"},
	{"PRT003", "Brother HL-L2350DW", "Finance", domain.CategoryPrinter, domain.StatusMaintenance, "Brother"},
	{"MOB001", "iPhone 13 Pro", "Sales", domain.CategoryMobile, domain.StatusAssigned, "Apple Inc."},
	{"MOB002", "Samsung Galaxy S22", "Marketing", domain.CategoryMobile, domain.StatusAssigned, "Samsung"},
	{"MOB003", "Google Pixel 6", "Engineering", domain.CategoryMobile, domain.StatusAvailable, "Google"},
	{"TAB001", `iPad Pro 12.9"`, "Marketing", domain.CategoryTablet, domain.StatusAssigned, "Apple Inc."},
	{"TAB002", "Surface Pro 8", "Sales", domain.CategoryTablet, domain.StatusAvailable, "Microsoft"},
	{"OTH001", "Logitech MX Master 3", "Engineering", domain.CategoryOther, domain.StatusAssigned, "Logitech"},
	{"OTH002", "Blue Yeti Microphone", "Marketing", domain.CategoryOther, domain.StatusAvailable, "Blue Microphones"},
	{"OTH003", "Webcam C920", "HR", domain.CategoryOther, domain.StatusAssigned, "Logitech"},
}

// serial → holder username
var seedAssignments = [][2]string{
	{"LAP002", "user1"},
	{"LAP003", "user2"},
	{"LAP005", "user4"},
	{"DES002", "user3"},
	{"MON001", "user1"},
	{"MON004", "user1"},
	{"MOB001", "user3"},
	{"MOB002", "user2"},
	{"TAB001", "user2"},
	{"OTH001", "user1"},
	{"OTH003", "user4"},
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store := sqlite.NewStore(db)
	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init store: %v", err)
	}
	stores := store.Stores()

	userIDs, err := createUsers(ctx, stores, logger)
	if err != nil {
		logger.Fatalf("seed users: %v", err)
	}
	if err := createAssets(ctx, stores, logger); err != nil {
		logger.Fatalf("seed assets: %v", err)
	}
	if err := createAssignments(ctx, stores, userIDs, logger); err != nil {
		logger.Fatalf("seed assignments: %v", err)
	}

	logger.Info("demo data loaded")
	logger.Info("login credentials: admin/admin123, incharge/incharge123, user1..user5/user123")
}

func createUsers(ctx context.Context, stores repository.Stores, logger *logrus.Logger) (map[string]int64, error) {
	ids := make(map[string]int64, len(seedUsers))

	for _, su := range seedUsers {
		existing, err := stores.Users.GetByUsername(ctx, su.username)
		if err == nil {
			ids[su.username] = existing.ID
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user := &domain.User{
			Username:     su.username,
			PasswordHash: string(hash),
			FirstName:    su.firstName,
			LastName:     su.lastName,
			Email:        su.email,
		}
		id, err := stores.Users.Create(ctx, user)
		if err != nil {
			return nil, err
		}
		ids[su.username] = id

		if err := stores.Profiles.Upsert(ctx, &domain.UserProfile{
			UserID:     id,
			Role:       su.role,
			EmployeeID: su.employeeID,
			Department: su.department,
			Phone:      su.phone,
		}); err != nil {
			return nil, err
		}
		logger.Infof("created user %s (%s)", su.username, su.role)
	}
	return ids, nil
}

func createAssets(ctx context.Context, stores repository.Stores, logger *logrus.Logger) error {
	for _, sa := range seedAssets {
		if _, err := stores.Assets.GetBySerial(ctx, sa.serial); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		asset := &domain.Asset{
			SerialNumber:  sa.serial,
			DisplayName:   sa.name,
			Department:    sa.department,
			ModelCategory: sa.category,
			Status:        sa.status,
			Company:       sa.company,
		}
		if _, err := stores.Assets.Create(ctx, asset); err != nil {
			return err
		}
		logger.Infof("created asset %s", sa.serial)
	}
	return nil
}

func createAssignments(ctx context.Context, stores repository.Stores, userIDs map[string]int64, logger *logrus.Logger) error {
	incharge, ok := userIDs["incharge"]
	if !ok {
		u, err := stores.Users.GetByUsername(ctx, "incharge")
		if err != nil {
			return err
		}
		incharge = u.ID
	}

	for _, sa := range seedAssignments {
		serial, username := sa[0], sa[1]

		asset, err := stores.Assets.GetBySerial(ctx, serial)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}
		user, err := stores.Users.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}

		open, err := stores.Assignments.ListOpenByAsset(ctx, asset.ID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			continue
		}

		if _, err := stores.Assignments.Create(ctx, &domain.AssetAssignment{
			AssetID:      asset.ID,
			AssignedTo:   user.ID,
			AssignedBy:   incharge,
			AssignedDate: time.Now().UTC(),
			Notes:        "Initial assignment to " + user.FullName(),
		}); err != nil {
			return err
		}

		asset.AssignedUserID = &user.ID
		asset.Status = domain.StatusAssigned
		if err := stores.Assets.Update(ctx, asset); err != nil {
			return err
		}
		logger.Infof("assigned %s to %s", serial, username)
	}
	return nil
}
