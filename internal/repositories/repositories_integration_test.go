package repositories

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-service/internal/dto"
	apperrors "user-service/pkg/errors"
)

// testPool заполняется, только если задан TEST_DATABASE_URL.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		var err error
		testPool, err = pgxpool.New(context.Background(), dsn)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		applySchema(testPool)
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

// applySchema выполняет DDL из testdata/schema.sql.
func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE votteryy_user_roles, votteryy_user_preferences, votteryy_user_details, public.users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

// seedUser создаёт аккаунт с деталями и возвращает его ID.
func seedUser(t *testing.T, first string, age int, gender, country string) uint64 {
	t.Helper()
	ctx := context.Background()

	var id uint64
	err := testPool.QueryRow(ctx, `INSERT INTO public.users (user_email, user_phone) VALUES ($1, $2) RETURNING user_id`,
		first+"@example.com", "+37100000000").Scan(&id)
	require.NoError(t, err)

	_, err = testPool.Exec(ctx, `INSERT INTO votteryy_user_details
		(user_id, first_name, last_name, age, gender, country, city, timezone, language, registration_ip)
		VALUES ($1, $2, 'Tester', $3, $4, $5, 'Riga', 'Europe/Riga', 'en', '10.0.0.1')`,
		id, first, age, gender, country)
	require.NoError(t, err)
	return id
}

func TestUserRepository_Integration(t *testing.T) {
	requireDB(t)
	cleanupTables(t)

	repo := NewUserRepository(testPool, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	anna := seedUser(t, "Anna", 28, "female", "Latvia")
	seedUser(t, "Boris", 41, "male", "Estonia")

	exists, err := repo.Exists(ctx, anna)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, exists)

	details, err := repo.FindDetails(ctx, anna)
	require.NoError(t, err)
	assert.Equal(t, "Anna", details.FirstName.String)
	assert.Equal(t, "10.0.0.1/32", details.RegistrationIP.String)

	_, err = repo.FindDetails(ctx, 999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := repo.UpdateDetails(ctx, anna, dto.UpdateProfileDTO{City: null.StringFrom("Jurmala"), Age: null.IntFrom(29)})
	require.NoError(t, err)
	assert.Equal(t, "Jurmala", updated.City.String)
	assert.Equal(t, 29, updated.Age.Int)
	assert.Equal(t, "Anna", updated.FirstName.String)

	profile, err := repo.FindProfile(ctx, anna)
	require.NoError(t, err)
	assert.Equal(t, "Anna@example.com", profile.Email.String)
	assert.Empty(t, profile.Roles)

	found, err := repo.Search(ctx, dto.UserSearchQuery{Query: "ann", Limit: 20})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, anna, found[0].UserID)

	q := dto.UserListQuery{Gender: "male"}
	q.Normalize()
	users, total, err := repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Boris", users[0].FirstName.String)
}

func TestRoleRepository_Integration(t *testing.T) {
	requireDB(t)
	cleanupTables(t)

	repo := NewRoleRepository(testPool, zap.NewNop())
	ctx := context.Background()
	id := seedUser(t, "Clara", 35, "female", "Lithuania")

	_, err := testPool.Exec(ctx, `INSERT INTO votteryy_user_roles (user_id, role_name, is_active) VALUES
		($1, 'Voter', true), ($1, 'Admin', true), ($1, 'Manager', false)`, id)
	require.NoError(t, err)

	names, err := repo.FindRoleNames(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "Voter"}, names)

	names, err = repo.FindRoleNames(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "Manager", "Voter"}, names)

	names, err = repo.FindRoleNames(ctx, 999999, true)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPreferencesRepository_Integration(t *testing.T) {
	requireDB(t)
	cleanupTables(t)

	repo := NewPreferencesRepository(testPool, zap.NewNop())
	ctx := context.Background()
	id := seedUser(t, "Dana", 22, "other", "Finland")

	_, err := repo.Find(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	prefs, err := repo.CreateDefault(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.True(t, prefs.EmailNotifications)
	assert.False(t, prefs.NewsletterSubscribed)
	assert.JSONEq(t, `{}`, string(prefs.PrivacySettings.JSON))

	prefs, err = repo.Update(ctx, id, dto.UpdatePreferencesDTO{
		Theme:           null.StringFrom("dark"),
		PrivacySettings: null.JSONFrom([]byte(`{"profile":"private"}`)),
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.True(t, prefs.EmailNotifications)
	assert.JSONEq(t, `{"profile":"private"}`, string(prefs.PrivacySettings.JSON))

	// Повторное создание не затирает сохранённые настройки
	prefs, err = repo.CreateDefault(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.JSONEq(t, `{"profile":"private"}`, string(prefs.PrivacySettings.JSON))
}

func TestPreferencesRepository_ConcurrentCreateDefault_Integration(t *testing.T) {
	requireDB(t)
	cleanupTables(t)

	repo := NewPreferencesRepository(testPool, zap.NewNop())
	id := seedUser(t, "Gleb", 31, "male", "Estonia")

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			prefs, err := repo.CreateDefault(ctx, id)
			if err != nil {
				return err
			}
			assert.Equal(t, id, prefs.UserID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	prefs, err := repo.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
}

func TestReportRepository_Integration(t *testing.T) {
	requireDB(t)
	cleanupTables(t)

	repo := NewReportRepository(testPool)
	ctx := context.Background()
	seedUser(t, "Eva", 20, "female", "Latvia")
	seedUser(t, "Fred", 40, "male", "Latvia")

	total, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	avg, err := repo.AverageAge(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, avg, 0.001)

	countries, err := repo.Distribution(ctx, DimensionCountry, 10)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "Latvia", countries[0].Label)
	assert.Equal(t, int64(2), countries[0].Count)

	groups, err := repo.AgeGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	trend, err := repo.RegistrationTrend(ctx, 30)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, int64(2), trend[0].Count)
}
