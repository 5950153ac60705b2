package service

import (
	"context"
	"strings"
	"time"

	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
	"github.com/inkvoice/inkvoice/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	profilerepo repository.Repository[profiledomain.Profile]
}

func NewService(p ServiceParam) profiledomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("profile.service"),

		profilerepo: repository.ProvideStore[profiledomain.Profile](p.DB),
	}
}

func (s *Service) Get(ctx context.Context, ownerEmail string) (profiledomain.Profile, error) {
	item, err := s.profilerepo.FindOne(ctx, &profiledomain.Profile{OwnerEmail: ownerEmail})
	if err != nil {
		return profiledomain.Profile{}, err
	}
	if item == nil {
		return profiledomain.Profile{}, nil
	}
	return *item, nil
}

func (s *Service) Save(ctx context.Context, ownerEmail string, payload profiledomain.SavePayload) error {
	currency := strings.TrimSpace(payload.Currency)
	if currency == "" {
		currency = "USD"
	}

	profile := profiledomain.Profile{
		OwnerEmail:  ownerEmail,
		CompanyName: payload.CompanyName,
		Address:     payload.Address,
		Currency:    currency,
		LogoDataURI: payload.LogoDataURI,
		UpdatedAt:   time.Now().UTC(),
	}

	// Full replacement on conflict: a save with omitted fields clears them.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_email"}},
		UpdateAll: true,
	}).Create(&profile).Error
}
