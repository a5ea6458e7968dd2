package userrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/dbschema"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/transaction"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *transaction.Database
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *transaction.Database) user.Repository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) FindByIssuerAndSubject(ctx context.Context, issuer, subject string) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("issuer = ? AND subject = ?", issuer, subject).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by issuer and subject",
			err,
			"8c1f5a2e-9d47-4b63-bf0a-3e6d2c9b8f14",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by ID",
			err,
			"d4b8e7a1-52f9-4c36-8a0d-9e1f4b7c2a58",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) Upsert(ctx context.Context, usr *user.User) (*user.User, error) {
	// Prepare schema model from domain user
	schemaUser := dbschema.NewSchemaUser(usr)

	assignments := map[string]any{
		"auth_provider": schemaUser.AuthProvider,
		"username":      schemaUser.Username,
		"email":         schemaUser.Email,
		"name":          schemaUser.Name,
		"picture":       schemaUser.Picture,
		"updated_at":    gorm.Expr("NOW()"),
	}

	if err := repo.db.GetTx(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "issuer"}, {Name: "subject"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(schemaUser).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert user",
			err,
			"f6a3d9c5-1e84-47b2-960f-c8d5a2e7b391",
		)
	}

	// Retrieve the persisted user to capture ID and timestamps
	var persisted dbschema.User
	if err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("issuer = ? AND subject = ?", schemaUser.Issuer, schemaUser.Subject).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted user",
			err,
			"2e9c4f76-8b1d-4a5e-bd38-60f7a9c1d2e4",
		)
	}

	return persisted.EtoD(), nil
}
