package implementation_test

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jt828/go-graphql-tracing/pkg/observability/implementation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type account struct {
	Id   int64
	Name string
}

func (account) TableName() string { return "accounts" }

func TestGormMetricsPlugin(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	meter := implementation.NewPrometheusMeter()
	require.NoError(t, db.Use(implementation.NewGormMetricsPlugin(meter)))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	var found []account
	require.NoError(t, db.Find(&found).Error)
	var missing account
	assert.ErrorIs(t, db.First(&missing).Error, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())

	families, err := implementation.PromRegistry(meter).Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				byName[f.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				byName[f.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 2.0, byName["gorm_query_total"])
	assert.Equal(t, 2.0, byName["gorm_query_duration_seconds"])
	assert.Zero(t, byName["gorm_query_errors_total"], "record not found is not an error")
}
