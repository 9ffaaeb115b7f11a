package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medimatch/api/model"
)

// gormStore backs the Store contract with a relational database. The same
// code path serves MySQL (shared backend) and SQLite (single-node installs).
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection. Call Migrate first.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.HospitalProfile{},
		&model.Match{},
		&model.ChatMessage{},
		&model.StatCounters{},
		&model.HospitalView{},
		&model.LegalDocument{},
		&model.SecurityLog{},
	)
}

func (s *gormStore) GetUser(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *gormStore) SaveUser(ctx context.Context, user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		UpdateAll: true,
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteUser(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("email = ?", email).Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		// Any session still pointing at the deleted account is dropped with it.
		if err := tx.Unscoped().Where("user_email = ?", email).Delete(&model.Session{}).Error; err != nil {
			return fmt.Errorf("delete user sessions: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetAllUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *gormStore) SaveAllUsers(ctx context.Context, users []model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("replace users: %w", err)
		}
		if len(users) == 0 {
			return nil
		}
		for i := range users {
			users[i].Email = model.NormalizeEmail(users[i].Email)
		}
		if err := tx.CreateInBatches(users, 100).Error; err != nil {
			return fmt.Errorf("replace users: %w", err)
		}
		return nil
	})
}

func (s *gormStore) SetSession(ctx context.Context, token, email string, expiresAt time.Time) error {
	session := model.Session{
		SessionToken: token,
		UserEmail:    model.NormalizeEmail(email),
		ExpiresAt:    expiresAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_token"}},
		UpdateAll: true,
	}).Create(&session).Error
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *gormStore) GetSessionUser(ctx context.Context, token string) (model.User, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Where("session_token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get session: %w", err)
	}
	return s.GetUser(ctx, session.UserEmail)
}

func (s *gormStore) ClearSession(ctx context.Context, token string) error {
	err := s.db.WithContext(ctx).Unscoped().
		Where("session_token = ?", token).Delete(&model.Session{}).Error
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *gormStore) GetHospitals(ctx context.Context) ([]model.HospitalProfile, error) {
	var hospitals []model.HospitalProfile
	if err := s.db.WithContext(ctx).Order("sort_index ASC").Find(&hospitals).Error; err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	return hospitals, nil
}

func (s *gormStore) GetHospital(ctx context.Context, id string) (model.HospitalProfile, error) {
	var hospital model.HospitalProfile
	err := s.db.WithContext(ctx).First(&hospital, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.HospitalProfile{}, ErrNotFound
	}
	if err != nil {
		return model.HospitalProfile{}, fmt.Errorf("get hospital: %w", err)
	}
	return hospital, nil
}

func (s *gormStore) SaveHospitals(ctx context.Context, hospitals []model.HospitalProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.HospitalProfile{}).Error; err != nil {
			return fmt.Errorf("replace hospitals: %w", err)
		}
		if len(hospitals) == 0 {
			return nil
		}
		for i := range hospitals {
			hospitals[i].SortIndex = i
		}
		if err := tx.CreateInBatches(hospitals, 100).Error; err != nil {
			return fmt.Errorf("replace hospitals: %w", err)
		}
		return nil
	})
}

func (s *gormStore) AddHospital(ctx context.Context, hospital model.HospitalProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Authored records go to the front of iteration order.
		var minIndex int
		row := tx.Model(&model.HospitalProfile{}).
			Select("COALESCE(MIN(sort_index), 0)").Row()
		if err := row.Scan(&minIndex); err != nil {
			return fmt.Errorf("add hospital: %w", err)
		}
		hospital.SortIndex = minIndex - 1
		if err := tx.Create(&hospital).Error; err != nil {
			return fmt.Errorf("add hospital: %w", err)
		}
		return nil
	})
}

func (s *gormStore) UpdateHospital(ctx context.Context, hospital model.HospitalProfile) error {
	// Updates with RowsAffected zero mean the id was never there; by contract
	// that is not an error and must not turn into an insert.
	res := s.db.WithContext(ctx).Model(&model.HospitalProfile{}).
		Where("id = ?", hospital.ID).
		Select("*").Omit("id", "created_at", "deleted_at", "sort_index").
		Updates(hospital)
	if res.Error != nil {
		return fmt.Errorf("update hospital: %w", res.Error)
	}
	return nil
}

func (s *gormStore) DeleteHospital(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Unscoped().
		Where("id = ?", id).Delete(&model.HospitalProfile{}).Error
	if err != nil {
		return fmt.Errorf("delete hospital: %w", err)
	}
	return nil
}

func (s *gormStore) GetMatches(ctx context.Context, userEmail string) ([]model.Match, error) {
	var matches []model.Match
	err := s.db.WithContext(ctx).
		Where("user_email = ?", model.NormalizeEmail(userEmail)).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") }).
		Order("created_at ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *gormStore) GetMatch(ctx context.Context, id string) (model.Match, error) {
	var match model.Match
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") }).
		First(&match, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Match{}, ErrNotFound
	}
	if err != nil {
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	return match, nil
}

func (s *gormStore) SaveMatch(ctx context.Context, match model.Match) (model.Match, error) {
	match.UserEmail = model.NormalizeEmail(match.UserEmail)
	// The unique (user_email, hospital_id) index makes duplicate accepts a
	// no-op at the write point, closing the check-then-insert race.
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
	if res.Error != nil {
		return model.Match{}, fmt.Errorf("save match: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return match, nil
	}
	var existing model.Match
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") }).
		Where("user_email = ? AND hospital_id = ?", match.UserEmail, match.HospitalID).
		First(&existing).Error
	if err != nil {
		return model.Match{}, fmt.Errorf("save match: %w", err)
	}
	return existing, nil
}

func (s *gormStore) UpdateMatch(ctx context.Context, match model.Match) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Match{}).Where("id = ?", match.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if count == 0 {
			return nil
		}
		err := tx.Model(&model.Match{}).Where("id = ?", match.ID).
			Updates(map[string]interface{}{
				"hospital":     match.Hospital,
				"last_message": match.LastMessage,
			}).Error
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if len(match.Messages) == 0 {
			return nil
		}
		// Messages are immutable: existing ids are left untouched, new ones
		// are appended.
		msgs := make([]model.ChatMessage, len(match.Messages))
		copy(msgs, match.Messages)
		for i := range msgs {
			msgs[i].MatchID = match.ID
		}
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&msgs).Error
		if err != nil {
			return fmt.Errorf("update match messages: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetStats(ctx context.Context) (model.AppStats, error) {
	var counters model.StatCounters
	err := s.db.WithContext(ctx).First(&counters).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.AppStats{}, fmt.Errorf("get stats: %w", err)
	}
	var views []model.HospitalView
	if err := s.db.WithContext(ctx).Find(&views).Error; err != nil {
		return model.AppStats{}, fmt.Errorf("get stats: %w", err)
	}
	stats := model.AppStats{
		TotalLogins:        counters.TotalLogins,
		TotalRegistrations: counters.TotalRegistrations,
		TotalMessages:      counters.TotalMessages,
		HospitalViews:      make(map[string]int64, len(views)),
	}
	for _, v := range views {
		stats.HospitalViews[v.HospitalID] = v.Views
	}
	return stats, nil
}

func (s *gormStore) IncrementStat(ctx context.Context, kind StatKind, entityID string) error {
	if kind == StatView {
		if entityID == "" {
			return ErrMissingEntityID
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hospital_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("views + 1")}),
		}).Create(&model.HospitalView{HospitalID: entityID, Views: 1}).Error
		if err != nil {
			return fmt.Errorf("increment view stat: %w", err)
		}
		return nil
	}

	var column string
	switch kind {
	case StatLogin:
		column = "total_logins"
	case StatRegistration:
		column = "total_registrations"
	case StatMessage:
		column = "total_messages"
	default:
		return fmt.Errorf("increment stat: unknown kind %q", kind)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counters model.StatCounters
		if err := tx.FirstOrCreate(&counters, model.StatCounters{}).Error; err != nil {
			return fmt.Errorf("increment stat: %w", err)
		}
		// Relative expression update so concurrent sessions never lose an
		// increment.
		err := tx.Model(&model.StatCounters{}).
			Where("id = ?", counters.ID).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error
		if err != nil {
			return fmt.Errorf("increment stat: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetLegalText(ctx context.Context) (string, error) {
	var doc model.LegalDocument
	err := s.db.WithContext(ctx).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DefaultLegalText, nil
	}
	if err != nil {
		return "", fmt.Errorf("get legal text: %w", err)
	}
	return doc.Body, nil
}

func (s *gormStore) SaveLegalText(ctx context.Context, text string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.LegalDocument
		err := tx.First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			doc.Body = text
			if err := tx.Create(&doc).Error; err != nil {
				return fmt.Errorf("save legal text: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("save legal text: %w", err)
		}
		err = tx.Model(&doc).Update("body", text).Error
		if err != nil {
			return fmt.Errorf("save legal text: %w", err)
		}
		return nil
	})
}
