package app

import (
	"fmt"

	recordsRepository "github.com/caredock/sharetoken/internal/records/repository"
	recordsUsecase "github.com/caredock/sharetoken/internal/records/usecase"
)

// RecordsRepository returns the clinical records repository instance.
func (c *Container) RecordsRepository() (recordsUsecase.RecordsRepository, error) {
	var err error
	c.recordsRepoInit.Do(func() {
		c.recordsRepo, err = c.initRecordsRepository()
		if err != nil {
			c.initErrors["recordsRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordsRepo"]; exists {
		return nil, storedErr
	}
	return c.recordsRepo, nil
}

// RecordsUseCase returns the records use case instance.
func (c *Container) RecordsUseCase() (recordsUsecase.RecordsUseCase, error) {
	var err error
	c.recordsUseCaseInit.Do(func() {
		c.recordsUseCase, err = c.initRecordsUseCase()
		if err != nil {
			c.initErrors["recordsUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordsUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordsUseCase, nil
}

// initRecordsRepository creates the records repository instance.
func (c *Container) initRecordsRepository() (recordsUsecase.RecordsRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for records repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return recordsRepository.NewMySQLRecordsRepository(db), nil
	case "postgres":
		return recordsRepository.NewPostgreSQLRecordsRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecordsUseCase creates the records use case with all its dependencies.
func (c *Container) initRecordsUseCase() (recordsUsecase.RecordsUseCase, error) {
	recordsRepo, err := c.RecordsRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get records repository for records use case: %w", err)
	}

	useCase := recordsUsecase.NewRecordsUseCase(c.config, recordsRepo)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for records use case: %w", err)
		}
		useCase = recordsUsecase.NewRecordsUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
