package main

import (
	"time"

	authsvc "bearh/internal/api/auth/service"
	hrsvc "bearh/internal/api/hr/service"
	kpisvc "bearh/internal/api/kpi/service"
	payrollsvc "bearh/internal/api/payroll/service"
	primesvc "bearh/internal/api/prime/service"
	reportsvc "bearh/internal/api/report/service"
	apirouter "bearh/internal/api/router"
	"bearh/internal/database"
	"bearh/internal/global"
	"bearh/internal/prime"
)

// InitServices khởi tạo mọi service trên collection trong registry
func InitServices(loc *time.Location) (*apirouter.Services, error) {
	s := &apirouter.Services{}
	var err error

	if s.Access, err = authsvc.NewAccessService(); err != nil {
		return nil, err
	}
	if s.Users, err = authsvc.NewUserService(s.Access); err != nil {
		return nil, err
	}

	tx := database.NewMongoTransactor(global.MongoDB_Session, global.MongoDB_ServerConfig.MongoDB_UseTransactions)
	if s.Departments, err = hrsvc.NewDepartmentService(s.Users, tx); err != nil {
		return nil, err
	}
	if s.Teams, err = hrsvc.NewTeamService(s.Users, tx); err != nil {
		return nil, err
	}
	if s.Positions, err = hrsvc.NewPositionService(s.Users, tx); err != nil {
		return nil, err
	}
	if s.HourGroups, err = hrsvc.NewHourGroupService(s.Users, tx); err != nil {
		return nil, err
	}
	if s.Observations, err = hrsvc.NewObservationService(); err != nil {
		return nil, err
	}
	if s.Attendances, err = hrsvc.NewAttendanceService(); err != nil {
		return nil, err
	}
	if s.Leaves, err = hrsvc.NewLeaveService(); err != nil {
		return nil, err
	}
	if s.Assets, err = hrsvc.NewAssetService(); err != nil {
		return nil, err
	}

	if s.KpiForms, err = kpisvc.NewKpiFormService(); err != nil {
		return nil, err
	}
	if s.KpiValues, err = kpisvc.NewKpiValueService(s.KpiForms); err != nil {
		return nil, err
	}

	if s.BonusCategories, err = primesvc.NewBonusCategoryService(s.Users, tx); err != nil {
		return nil, err
	}
	if s.PrimeJobs, err = primesvc.NewPrimeJobService(); err != nil {
		return nil, err
	}
	if s.SystemConfig, err = primesvc.NewSystemConfigService(); err != nil {
		return nil, err
	}
	if s.Payrolls, err = payrollsvc.NewPayrollService(s.Users); err != nil {
		return nil, err
	}

	source := primesvc.NewSource(s.BonusCategories, s.KpiValues, s.Observations)
	s.Calculator = prime.NewCalculator(source, s.PrimeJobs, s.Payrolls, s.SystemConfig, loc)
	s.Scheduler = prime.NewScheduler(s.SystemConfig, prime.NewCalculatorRunner(s.Calculator), loc)

	s.Reports = reportsvc.NewReportService(s.Attendances, s.Leaves, s.Observations, s.KpiValues, loc)
	return s, nil
}
