package service

import (
	"context"
	"testing"

	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursService(t *testing.T) {
	testDB := setupServiceTest(t)
	svc := NewHoursService(repository.NewCompanyRepository(testDB), repository.NewBusinessHourRepository(testDB))
	company := createTestCompany(t, testDB, "clinica-vitro", 7)
	ctx := context.Background()

	t.Run("Rejects bad input", func(t *testing.T) {
		tests := []struct {
			name  string
			day   int
			in    HourInput
			field string
		}{
			{name: "Day out of range", day: 7, in: HourInput{OpenTime: "09:00", CloseTime: "18:00"}, field: "day_of_week"},
			{name: "Bad time", day: 1, in: HourInput{OpenTime: "9am", CloseTime: "18:00"}, field: "open_time"},
			{name: "Missing close", day: 1, in: HourInput{OpenTime: "09:00"}, field: "close_time"},
			{name: "Closes before opening", day: 1, in: HourInput{OpenTime: "18:00", CloseTime: "09:00"}, field: "close_time"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.SetHours(ctx, 7, company.ID, tt.day, tt.in)
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Fields, tt.field)
			})
		}
	})

	t.Run("Upserts per day", func(t *testing.T) {
		_, err := svc.SetHours(ctx, 7, company.ID, 1, HourInput{OpenTime: "09:00", CloseTime: "18:00"})
		require.NoError(t, err)
		_, err = svc.SetHours(ctx, 7, company.ID, 1, HourInput{OpenTime: "10:00", CloseTime: "14:00"})
		require.NoError(t, err)
		_, err = svc.SetHours(ctx, 7, company.ID, 0, HourInput{IsClosed: true, OpenTime: "10:00"})
		require.NoError(t, err)

		hours, err := svc.ListHours(ctx, company.ID)
		require.NoError(t, err)
		require.Len(t, hours, 2)
		assert.Equal(t, 0, hours[0].DayOfWeek)
		assert.True(t, hours[0].IsClosed)
		assert.Empty(t, hours[0].OpenTime)
		assert.Equal(t, "10:00", hours[1].OpenTime)
		assert.Equal(t, "14:00", hours[1].CloseTime)
	})

	t.Run("Clear day", func(t *testing.T) {
		require.NoError(t, svc.ClearDay(ctx, 7, company.ID, 1))
		require.NoError(t, svc.ClearDay(ctx, 7, company.ID, 1))
		hours, err := svc.ListHours(ctx, company.ID)
		require.NoError(t, err)
		assert.Len(t, hours, 1)
	})

	t.Run("Owner only", func(t *testing.T) {
		_, err := svc.SetHours(ctx, 8, company.ID, 2, HourInput{IsClosed: true})
		assert.ErrorIs(t, err, ErrCompanyAccessDenied)
	})
}
