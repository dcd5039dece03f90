package address

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAddressDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Address{}))
	return db
}

func validInput(name string) CreateInput {
	return CreateInput{
		Name:    name,
		Phone:   "0500000000",
		Street:  "1 Palm St",
		City:    "Dubai",
		State:   "Dubai",
		Country: "UAE",
	}
}

func TestServiceCreateAndListOrdersByCreation(t *testing.T) {
	db := setupAddressDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	first, err := svc.Create(ctx, "uid-1", validInput("Home"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Create(ctx, "uid-1", validInput("Office"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "uid-2", validInput("Elsewhere"))
	require.NoError(t, err)

	list, err := svc.List(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Home", list[0].Name)
	assert.Equal(t, "Office", list[1].Name)
}

func TestServiceGet(t *testing.T) {
	db := setupAddressDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	created, err := svc.Create(ctx, "uid-1", validInput("Home"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "uid-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Palm St", got.Street)

	_, err = svc.Get(ctx, "uid-2", created.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Get(ctx, "uid-1", uuid.NewString())
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Get(ctx, "uid-1", "not-a-uuid")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceCreateValidates(t *testing.T) {
	svc := NewService(NewRepository(setupAddressDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, "uid-1", CreateInput{Name: "  ", Phone: "1", Street: "s", City: "c"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, "", validInput("Home"))
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.List(ctx, "")
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
