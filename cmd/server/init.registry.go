package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"bearh/config"
	"bearh/internal/global"
)

func InitRegistry() {
	if err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// collectionNames liệt kê mọi collection của ứng dụng
func collectionNames() []string {
	n := global.MongoDB_ColNames
	return []string{
		n.Users, n.Access, n.Departments, n.Teams, n.Positions, n.HourGroups,
		n.BonusCategories, n.PrimeCronJobs, n.SystemConfigs,
		n.Observations, n.KpiForms, n.KpiValues, n.Payrolls,
		n.Assets, n.Attendances, n.Leaves,
	}
}

// InitCollections đăng ký các collection MongoDB vào registry
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	for _, name := range collectionNames() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		if !registered {
			logrus.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}
