package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	authdto "bearh/internal/api/auth/dto"
	authmodels "bearh/internal/api/auth/models"
	hrmodels "bearh/internal/api/hr/models"
	kpimodels "bearh/internal/api/kpi/models"
	payrollmodels "bearh/internal/api/payroll/models"
	primemodels "bearh/internal/api/prime/models"
	primesvc "bearh/internal/api/prime/service"
	apirouter "bearh/internal/api/router"
	"bearh/internal/database"
	"bearh/internal/global"
)

// InitDefaultData tạo collection, index, cấu hình mặc định và tài khoản admin khởi tạo
func InitDefaultData(ctx context.Context, services *apirouter.Services) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	if err := database.EnsureCollections(ctx, db, collectionNames()); err != nil {
		return err
	}
	if err := initIndexes(ctx); err != nil {
		return err
	}
	if err := services.SystemConfig.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("seed system config: %w", err)
	}
	return initAdmin(ctx, services)
}

func initIndexes(ctx context.Context) error {
	n := global.MongoDB_ColNames
	models := map[string]interface{}{
		n.Users:           authmodels.User{},
		n.Access:          authmodels.Access{},
		n.Departments:     hrmodels.Department{},
		n.Teams:           hrmodels.Team{},
		n.Positions:       hrmodels.Position{},
		n.HourGroups:      hrmodels.HourGroup{},
		n.Observations:    hrmodels.Observation{},
		n.Assets:          hrmodels.Asset{},
		n.Attendances:     hrmodels.Attendance{},
		n.Leaves:          hrmodels.Leave{},
		n.KpiForms:        kpimodels.KpiForm{},
		n.KpiValues:       kpimodels.KpiValue{},
		n.Payrolls:        payrollmodels.Payroll{},
		n.BonusCategories: primemodels.BonusCategory{},
		n.PrimeCronJobs:   primemodels.PrimeCronJob{},
		n.SystemConfigs:   primemodels.SystemConfig{},
	}
	for name, model := range models {
		coll, err := global.RegistryCollections.MustGet(name)
		if err != nil {
			return err
		}
		if err := database.CreateIndexes(ctx, coll, model); err != nil {
			return err
		}
	}

	// index chặn hai job tính thưởng chạy chồng nhau
	jobs, err := global.RegistryCollections.MustGet(n.PrimeCronJobs)
	if err != nil {
		return err
	}
	if _, err := jobs.Indexes().CreateOne(ctx, primesvc.LockIndex()); err != nil {
		return fmt.Errorf("create prime job lock index: %w", err)
	}
	logrus.Info("Ensured indexes")
	return nil
}

// initAdmin tạo admin từ ADMIN_EMAIL / ADMIN_PASSWORD với toàn bộ quyền nếu chưa tồn tại
func initAdmin(ctx context.Context, services *apirouter.Services) error {
	cfg := global.MongoDB_ServerConfig
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logrus.Info("No bootstrap admin configured")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	existing, err := services.Users.ReadOne(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	input := &authdto.UserCreateInput{
		FirstName:   "Admin",
		LastName:    "BeaRH",
		Email:       email,
		Password:    cfg.AdminPassword,
		Permissions: strings.Join(services.Access.Catalogue().Permissions(), ","),
	}
	if err := global.ValidateStruct(input); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if _, err := services.Users.Create(ctx, input); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logrus.WithField("email", email).Info("Bootstrap admin created")
	return nil
}
