package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	ruleRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/rule"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	userClient "github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules/models"
)

// Service сервис управления правилами бронирования клуба
type Service struct {
	ruleRepo   RuleRepository
	clubRepo   ClubRepository
	tariffRepo TariffRepository
	userClient UserServiceClient
	logger     Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	ruleRepo RuleRepository,
	clubRepo ClubRepository,
	tariffRepo TariffRepository,
	userClient UserServiceClient,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:   ruleRepo,
		clubRepo:   clubRepo,
		tariffRepo: tariffRepo,
		userClient: userClient,
		logger:     logger,
	}
}

// Create создает правило бронирования
// Доступно владельцу клуба и администраторам
// Параметры проверяются на соответствие типу правила до сохранения
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule type=%s for club=%d, tariff=%v by user=%d",
		req.RuleType, req.ClubID, req.TariffID, req.UserID)

	// 1. Проверяем тип и параметры
	ruleType := domain.RuleType(req.RuleType)
	if !ruleType.IsValid() {
		s.logger.Warn("Create: unknown rule type=%s", req.RuleType)
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, req.RuleType)
	}
	if req.Description != nil && len([]rune(*req.Description)) > domain.MaxRuleDescriptionLength {
		return nil, fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}

	params, err := domain.DecodeRuleParams(0, ruleType, req.Parameters)
	if err != nil {
		var cfgErr *domain.RuleConfigurationError
		if errors.As(err, &cfgErr) {
			s.logger.Warn("Create: invalid parameters for rule type=%s: %s", req.RuleType, cfgErr.Reason)
			return nil, fmt.Errorf("%w: %s", ErrInvalidRuleParams, cfgErr.Reason)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleParams, err)
	}

	// 2. Проверяем клуб и права доступа
	club, err := s.getClub(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	if err := s.checkManagerAccess(ctx, club, req.UserID); err != nil {
		return nil, err
	}

	// 3. Тариф (если указан) должен принадлежать клубу
	if req.TariffID != nil {
		tariff, err := s.tariffRepo.GetByID(ctx, *req.TariffID)
		if err != nil {
			if errors.Is(err, tariffRepo.ErrTariffNotFound) {
				s.logger.Warn("Create: tariff id=%d not found", *req.TariffID)
				return nil, ErrTariffNotFound
			}
			s.logger.Error("Create: failed to get tariff id=%d: %v", *req.TariffID, err)
			return nil, fmt.Errorf("%w: failed to get tariff: %v", ErrInternal, err)
		}
		if tariff.ClubID != club.ID {
			s.logger.Warn("Create: tariff id=%d belongs to club=%d, not %d", tariff.ID, tariff.ClubID, club.ID)
			return nil, ErrTariffNotFound
		}
	}

	// 4. Сохраняем правило
	created, err := s.ruleRepo.Create(ctx, &domain.BookingRule{
		ClubID:      club.ID,
		TariffID:    req.TariffID,
		Type:        ruleType,
		Params:      params,
		Description: req.Description,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created rule id=%d", created.ID)
	return models.FromDomainRule(created), nil
}

// List получает правила клуба
// Доступно владельцу клуба и администраторам
// Если хотя бы одно правило хранится с некорректными параметрами, возвращается
// *domain.RuleConfigurationError с его id, чтобы владелец клуба мог его исправить
func (s *Service) List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching rules for club=%d, tariff=%v by user=%d", req.ClubID, req.TariffID, req.UserID)

	club, err := s.getClub(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	if err := s.checkManagerAccess(ctx, club, req.UserID); err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.GetByClub(ctx, club.ID, req.TariffID)
	if err != nil {
		if errors.Is(err, domain.ErrRuleConfiguration) {
			s.logger.Warn("List: club=%d has misconfigured rule: %v", club.ID, err)
			return nil, err
		}
		s.logger.Error("List: repository error for club=%d: %v", club.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d rules for club=%d", len(rules), club.ID)
	return models.FromDomainRuleList(rules), nil
}

// Delete удаляет правило клуба
// Доступно владельцу клуба и администраторам
// Параметры правила не разбираются, поэтому удалить можно и некорректно настроенное правило
func (s *Service) Delete(ctx context.Context, clubID, ruleID, userID int64) error {
	s.logger.Info("Delete: deleting rule id=%d of club=%d by user=%d", ruleID, clubID, userID)

	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return err
	}
	if err := s.checkManagerAccess(ctx, club, userID); err != nil {
		return err
	}

	if err := s.ruleRepo.Delete(ctx, clubID, ruleID); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found in club=%d", ruleID, clubID)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted rule id=%d", ruleID)
	return nil
}

// Вспомогательные методы

func (s *Service) getClub(ctx context.Context, clubID int64) (*domain.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubRepo.ErrClubNotFound) {
			s.logger.Warn("club id=%d not found", clubID)
			return nil, ErrClubNotFound
		}
		s.logger.Error("failed to get club id=%d: %v", clubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrInternal, err)
	}
	return club, nil
}

// checkManagerAccess пропускает владельца клуба и администраторов
func (s *Service) checkManagerAccess(ctx context.Context, club *domain.Club, userID int64) error {
	if club.IsManagedBy(userID) {
		return nil
	}

	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("user id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}

	s.logger.Warn("user=%d is not allowed to manage club=%d", userID, club.ID)
	return ErrAccessDenied
}
