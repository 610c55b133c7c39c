package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service/internal/connections/database/dbtest"
)

func TestDirectoryRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewDirectoryRepository(db)

	ids, err := repo.ListStaffIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	db.MustExecContext(ctx, `INSERT INTO staff (name, role) VALUES ('Bo', 'staff'), ('Cy', 'manager'), ('Di', 'staff')`)
	db.MustExecContext(ctx, `INSERT INTO customers (name) VALUES ('Ann'), ('Ben')`)

	ids, err = repo.ListStaffIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	staff, err := repo.CountStaff(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), staff)
	assert.Len(t, ids, int(staff))

	customers, err := repo.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), customers)
}
