package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"elearn/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger(&buf)
	query := func() (string, int64) { return "SELECT * FROM users WHERE id = 1", 0 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), query, errors.New("relation does not exist"))
	assert.Contains(t, buf.String(), "relation does not exist")
}

func TestMissingRowLookupStaysQuiet(t *testing.T) {
	db := openMemory(t)
	var buf bytes.Buffer
	quiet := db.Session(&gorm.Session{Logger: newGormLogger(&buf)})

	var user models.User
	err := quiet.Where("id = ?", 9999).First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())
}
