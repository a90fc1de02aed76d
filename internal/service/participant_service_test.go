package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

type mockParticipantRepository struct {
	createParticipantFn func(context.Context, *models.Participant) error
	updateParticipantFn func(context.Context, *models.Participant) error
	getParticipantFn    func(context.Context, int) (*models.Participant, error)
	listParticipantsFn  func(context.Context, bool) ([]*models.Participant, error)
	deleteParticipantFn func(context.Context, int) error
}

func (m *mockParticipantRepository) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if m == nil || m.createParticipantFn == nil {
		return nil
	}
	return m.createParticipantFn(ctx, p)
}

func (m *mockParticipantRepository) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if m == nil || m.updateParticipantFn == nil {
		return nil
	}
	return m.updateParticipantFn(ctx, p)
}

func (m *mockParticipantRepository) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	if m == nil || m.getParticipantFn == nil {
		return nil, domain.NewNotFoundError("participant")
	}
	return m.getParticipantFn(ctx, id)
}

func (m *mockParticipantRepository) ListParticipants(ctx context.Context, activeOnly bool) ([]*models.Participant, error) {
	if m == nil || m.listParticipantsFn == nil {
		return nil, nil
	}
	return m.listParticipantsFn(ctx, activeOnly)
}

func (m *mockParticipantRepository) DeleteParticipant(ctx context.Context, id int) error {
	if m == nil || m.deleteParticipantFn == nil {
		return nil
	}
	return m.deleteParticipantFn(ctx, id)
}

func boolPtr(v bool) *bool {
	return &v
}

func TestParticipantManager_AddParticipantPersistsAndCaches(t *testing.T) {
	ctx := context.Background()
	var persisted *models.Participant
	repo := &mockParticipantRepository{
		createParticipantFn: func(_ context.Context, p *models.Participant) error {
			p.Id = 11
			persisted = p
			return nil
		},
	}

	manager := NewParticipantManager(repo)
	p, err := manager.AddParticipant(ctx, models.PostParticipantAddJSONBody{
		Name:      "  Ana ",
		FullName:  "Ana Souza",
		BirthDate: "1990-03-14",
	})
	require.NoError(t, err)
	require.Equal(t, 11, p.Id)
	require.Equal(t, "Ana", p.Name)
	require.True(t, p.IsActive, "participants are active unless stated otherwise")
	require.NotNil(t, p.BirthDate)
	require.Equal(t, "1990-03-14", p.BirthDate.Format("2006-01-02"))
	require.Same(t, persisted, p)

	cached, ok := manager.participants[11]
	require.True(t, ok, "participant was not cached")
	require.NotSame(t, p, cached)
}

func TestParticipantManager_AddParticipantInactive(t *testing.T) {
	manager := NewParticipantManager(&mockParticipantRepository{})
	p, err := manager.AddParticipant(context.Background(), models.PostParticipantAddJSONBody{
		Name:     "Bia",
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	require.False(t, p.IsActive)
	require.Nil(t, p.BirthDate)
}

func TestParticipantManager_AddParticipantValidation(t *testing.T) {
	tests := []struct {
		name string
		body models.PostParticipantAddJSONBody
		want string
	}{
		{name: "blank name", body: models.PostParticipantAddJSONBody{Name: "   "}, want: "Name"},
		{name: "long name", body: models.PostParticipantAddJSONBody{Name: strings.Repeat("a", 101)}, want: "max=100"},
		{name: "bad birth date", body: models.PostParticipantAddJSONBody{Name: "Ana", BirthDate: "14/03/1990"}, want: "BirthDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockParticipantRepository{
				createParticipantFn: func(context.Context, *models.Participant) error {
					t.Fatal("repository must not be called for invalid input")
					return nil
				},
			}
			_, err := NewParticipantManager(repo).AddParticipant(context.Background(), tt.body)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParticipantManager_AddParticipantRepoError(t *testing.T) {
	repo := &mockParticipantRepository{
		createParticipantFn: func(context.Context, *models.Participant) error {
			return errors.New("db down")
		},
	}
	manager := NewParticipantManager(repo)
	_, err := manager.AddParticipant(context.Background(), models.PostParticipantAddJSONBody{Name: "Ana"})
	require.Error(t, err)
	require.Empty(t, manager.participants)
}

func TestParticipantManager_GetParticipantPaths(t *testing.T) {
	ctx := context.Background()
	calls := 0
	repo := &mockParticipantRepository{
		getParticipantFn: func(_ context.Context, id int) (*models.Participant, error) {
			calls++
			switch id {
			case 1:
				return &models.Participant{Id: 1, Name: "Ana", IsActive: true}, nil
			case 2:
				return nil, errors.New("boom")
			default:
				return nil, domain.NewNotFoundError("participant")
			}
		},
	}
	manager := NewParticipantManager(repo)

	p, err := manager.GetParticipant(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Ana", p.Name)

	_, err = manager.GetParticipant(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, calls, "second lookup should hit the cache")

	_, err = manager.GetParticipant(ctx, 2)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = manager.GetParticipant(ctx, 3)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParticipantManager_UpdateParticipantKeepsActivity(t *testing.T) {
	var saved *models.Participant
	repo := &mockParticipantRepository{
		getParticipantFn: func(context.Context, int) (*models.Participant, error) {
			return &models.Participant{Id: 5, Name: "Old", IsActive: false}, nil
		},
		updateParticipantFn: func(_ context.Context, p *models.Participant) error {
			saved = p
			return nil
		},
	}
	manager := NewParticipantManager(repo)

	p, err := manager.UpdateParticipant(context.Background(), models.PostParticipantUpdateJSONBody{
		Id:        5,
		Name:      "New",
		BirthDate: "2000-01-31",
	})
	require.NoError(t, err)
	require.Equal(t, "New", p.Name)
	require.False(t, p.IsActive)
	require.NotNil(t, saved)
	require.Equal(t, "New", saved.Name)
	require.Equal(t, "New", manager.participants[5].Name)
}

func TestParticipantManager_UpdateParticipantErrors(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		_, err := NewParticipantManager(&mockParticipantRepository{}).
			UpdateParticipant(context.Background(), models.PostParticipantUpdateJSONBody{Name: "x"})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown participant", func(t *testing.T) {
		_, err := NewParticipantManager(&mockParticipantRepository{}).
			UpdateParticipant(context.Background(), models.PostParticipantUpdateJSONBody{Id: 9, Name: "x"})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("repo failure leaves cache untouched", func(t *testing.T) {
		repo := &mockParticipantRepository{
			getParticipantFn: func(context.Context, int) (*models.Participant, error) {
				return &models.Participant{Id: 9, Name: "Old", IsActive: true}, nil
			},
			updateParticipantFn: func(context.Context, *models.Participant) error {
				return errors.New("write failed")
			},
		}
		manager := NewParticipantManager(repo)
		_, err := manager.UpdateParticipant(context.Background(), models.PostParticipantUpdateJSONBody{Id: 9, Name: "New"})
		require.Error(t, err)
		require.Equal(t, "Old", manager.participants[9].Name)
	})
}

func TestParticipantManager_SetParticipantActivity(t *testing.T) {
	ctx := context.Background()
	updates := 0
	repo := &mockParticipantRepository{
		getParticipantFn: func(context.Context, int) (*models.Participant, error) {
			return &models.Participant{Id: 4, Name: "Caio", IsActive: true}, nil
		},
		updateParticipantFn: func(_ context.Context, p *models.Participant) error {
			updates++
			if p.IsActive {
				t.Fatalf("expected participant to be deactivated")
			}
			return nil
		},
	}
	manager := NewParticipantManager(repo)

	p, err := manager.SetParticipantActivity(ctx, 4, false)
	require.NoError(t, err)
	require.False(t, p.IsActive)

	p, err = manager.SetParticipantActivity(ctx, 4, false)
	require.NoError(t, err)
	require.False(t, p.IsActive)
	require.Equal(t, 1, updates, "unchanged activity must not hit the repository")
}

func TestParticipantManager_ListParticipantsWarmsCache(t *testing.T) {
	repo := &mockParticipantRepository{
		listParticipantsFn: func(_ context.Context, activeOnly bool) ([]*models.Participant, error) {
			require.True(t, activeOnly)
			return []*models.Participant{{Id: 1, Name: "Ana", IsActive: true}, {Id: 2, Name: "Bia", IsActive: true}}, nil
		},
	}
	manager := NewParticipantManager(repo)

	list, err := manager.ListParticipants(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Len(t, manager.participants, 2)
}

func TestParticipantManager_RemoveParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("success evicts cache", func(t *testing.T) {
		manager := NewParticipantManager(&mockParticipantRepository{})
		manager.cache(&models.Participant{Id: 3, Name: "Duda"})

		require.NoError(t, manager.RemoveParticipant(ctx, 3))
		_, ok := manager.participants[3]
		require.False(t, ok)
	})

	t.Run("in use passes through", func(t *testing.T) {
		repo := &mockParticipantRepository{
			deleteParticipantFn: func(_ context.Context, id int) error {
				return domain.NewParticipantInUseError(id)
			},
		}
		err := NewParticipantManager(repo).RemoveParticipant(ctx, 3)
		require.ErrorIs(t, err, domain.ErrParticipantInUse)
	})

	t.Run("unexpected error wrapped", func(t *testing.T) {
		repo := &mockParticipantRepository{
			deleteParticipantFn: func(context.Context, int) error {
				return errors.New("db down")
			},
		}
		err := NewParticipantManager(repo).RemoveParticipant(ctx, 3)
		require.ErrorContains(t, err, "failed to remove participant 3")
	})
}
