package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-portfolio-api/internal/model"
)

func TestProductRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	owner := seedUser(t, db, "owner@example.com")

	p := &model.Product{
		UserID:      owner.ID,
		Name:        "Portfolio",
		SKU:         "P-1",
		Category:    "Web",
		LiveDemo:    "https://demo.example.com",
		Description: "site",
		Image:       model.Image{FileName: "a.png", FilePath: "https://cdn/a.png", FileType: "image/png", FileSize: "1.54 KB"},
	}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", got.Name)
	assert.Equal(t, 0, got.Likes)
	assert.Empty(t, got.LikedBy)
	assert.Equal(t, p.Image, got.Image)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductRepo_FindAll_Empty(t *testing.T) {
	repo := NewProductRepo(newTestDB(t))

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductRepo_UpdateKeepsOwnerAndLikes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	fan := seedUser(t, db, "fan@example.com")
	p := seedProduct(t, db, owner.ID, "Before")

	_, _, err := repo.Like(ctx, p.ID, fan.ID)
	require.NoError(t, err)

	// A stale copy must not roll back the like counter.
	stale := *p
	stale.Name = "After"
	stale.UserID = fan.ID
	stale.Likes = 0
	require.NoError(t, repo.Update(ctx, &stale))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, 1, got.Likes)
	require.Len(t, got.LikedBy, 1)

	missing := &model.Product{Name: "x"}
	missing.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrProductNotFound)
}

func TestProductRepo_DeleteRemovesLikes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	users := NewUserRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	fan := seedUser(t, db, "fan@example.com")
	p := seedProduct(t, db, owner.ID, "Doomed")

	_, _, err := repo.Like(ctx, p.ID, fan.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var rows int64
	require.NoError(t, db.Model(&model.ProductLike{}).Count(&rows).Error)
	assert.Zero(t, rows)

	u, err := users.FindWithLikes(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, u.LikedProducts)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestProductRepo_LikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	users := NewUserRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	fan := seedUser(t, db, "fan@example.com")
	p := seedProduct(t, db, owner.ID, "Liked")

	got, changed, err := repo.Like(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, got.Likes)

	got, changed, err = repo.Like(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, got.Likes)
	require.Len(t, got.LikedBy, 1)
	assert.Equal(t, fan.ID, got.LikedBy[0].ID)

	u, err := users.FindWithLikes(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, u.LikedProducts, 1)
	assert.Equal(t, p.ID, u.LikedProducts[0].ID)
}

func TestProductRepo_UnlikeRestoresState(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	users := NewUserRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	fan := seedUser(t, db, "fan@example.com")
	p := seedProduct(t, db, owner.ID, "Liked")

	// Unlike without a like changes nothing.
	got, changed, err := repo.Unlike(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, got.Likes)

	_, _, err = repo.Like(ctx, p.ID, fan.ID)
	require.NoError(t, err)

	got, changed, err = repo.Unlike(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, got.Likes)
	assert.Empty(t, got.LikedBy)

	u, err := users.FindWithLikes(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, u.LikedProducts)
}

func TestProductRepo_LikeMissingParties(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	p := seedProduct(t, db, owner.ID, "Lonely")

	tests := []struct {
		name      string
		productID uuid.UUID
		userID    uuid.UUID
		wantErr   error
	}{
		{name: "unknown product", productID: uuid.New(), userID: owner.ID, wantErr: ErrProductNotFound},
		{name: "unknown user", productID: p.ID, userID: uuid.New(), wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := repo.Like(ctx, tt.productID, tt.userID)
			assert.ErrorIs(t, err, tt.wantErr)

			_, _, err = repo.Unlike(ctx, tt.productID, tt.userID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
}

func TestProductRepo_CounterMatchesLikers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	p := seedProduct(t, db, owner.ID, "Popular")

	fans := make([]*model.User, 4)
	for i := range fans {
		fans[i] = seedUser(t, db, uuid.NewString()+"@example.com")
	}

	ops := []struct {
		fan  int
		like bool
	}{
		{0, true}, {1, true}, {0, true}, {2, true}, {1, false}, {1, false}, {3, false}, {3, true},
	}
	for _, op := range ops {
		var (
			got *model.Product
			err error
		)
		if op.like {
			got, _, err = repo.Like(ctx, p.ID, fans[op.fan].ID)
		} else {
			got, _, err = repo.Unlike(ctx, p.ID, fans[op.fan].ID)
		}
		require.NoError(t, err)
		assert.Equal(t, len(got.LikedBy), got.Likes)
	}

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Likes)
}

func TestProductRepo_ConcurrentLikesBySameUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepo(db)
	owner := seedUser(t, db, "owner@example.com")
	fan := seedUser(t, db, "fan@example.com")
	p := seedProduct(t, db, owner.ID, "Contended")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.Like(ctx, p.ID, fan.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Len(t, got.LikedBy, 1)
}
