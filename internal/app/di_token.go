package app

import (
	"fmt"

	tokenRepository "github.com/caredock/sharetoken/internal/token/repository"
	tokenService "github.com/caredock/sharetoken/internal/token/service"
	tokenUsecase "github.com/caredock/sharetoken/internal/token/usecase"
)

// TokenRepository returns the token repository instance.
func (c *Container) TokenRepository() (tokenUsecase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// AccessLogRepository returns the access log repository instance.
func (c *Container) AccessLogRepository() (tokenUsecase.AccessLogRepository, error) {
	var err error
	c.accessLogRepoInit.Do(func() {
		c.accessLogRepo, err = c.initAccessLogRepository()
		if err != nil {
			c.initErrors["accessLogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessLogRepo"]; exists {
		return nil, storedErr
	}
	return c.accessLogRepo, nil
}

// TokenIDService returns the token id generator.
func (c *Container) TokenIDService() (tokenService.TokenIDService, error) {
	c.tokenIDServiceInit.Do(func() {
		c.tokenIDService = tokenService.NewTokenIDService()
	})
	return c.tokenIDService, nil
}

// QRPayloadService returns the QR payload codec.
func (c *Container) QRPayloadService() (tokenService.QRPayloadService, error) {
	c.qrPayloadServiceInit.Do(func() {
		c.qrPayloadService = tokenService.NewQRPayloadService()
	})
	return c.qrPayloadService, nil
}

// TokenUseCase returns the token use case instance.
func (c *Container) TokenUseCase() (tokenUsecase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// initTokenRepository creates the token repository instance.
func (c *Container) initTokenRepository() (tokenUsecase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tokenRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return tokenRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessLogRepository creates the access log repository instance.
func (c *Container) initAccessLogRepository() (tokenUsecase.AccessLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access log repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tokenRepository.NewMySQLAccessLogRepository(db), nil
	case "postgres":
		return tokenRepository.NewPostgreSQLAccessLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUsecase.TokenUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	accessLogRepo, err := c.AccessLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log repository for token use case: %w", err)
	}

	tokenIDService, err := c.TokenIDService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token id service for token use case: %w", err)
	}

	qrPayloadService, err := c.QRPayloadService()
	if err != nil {
		return nil, fmt.Errorf("failed to get qr payload service for token use case: %w", err)
	}

	useCase := tokenUsecase.NewTokenUseCase(
		c.config,
		txManager,
		tokenRepo,
		accessLogRepo,
		tokenIDService,
		qrPayloadService,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		useCase = tokenUsecase.NewTokenUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
