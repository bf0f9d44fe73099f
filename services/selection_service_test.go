package services

import (
	"context"
	"testing"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSelectionServiceForTest(t *testing.T) (SelectionService, *fakeParticipantRepo, *fakeSelectionRepo) {
	t.Helper()
	participantRepo := newFakeParticipantRepo()
	selectionRepo := newFakeSelectionRepo(participantRepo)
	return NewSelectionService(selectionRepo, participantRepo), participantRepo, selectionRepo
}

func TestCreateSelection_Success(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	selected := participants.add(102, models.CheckStatusApproved, models.GenderFemale)

	selection, err := svc.CreateSelection(context.Background(), selector.ID, selected.ParticipantNumber)

	require.NoError(t, err)
	assert.Equal(t, selector.ID, selection.SelectorID)
	assert.Equal(t, selected.ID, selection.SelectedID)
	assert.NotEmpty(t, selection.ID)
	assert.False(t, selection.IsMutual, "mutual flag is never set at creation")
}

func TestCreateSelection_UnknownNumber(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)

	_, err := svc.CreateSelection(context.Background(), selector.ID, 999)

	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestCreateSelection_PendingTargetRejected(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	pending := participants.add(102, models.CheckStatusPending, models.GenderFemale)

	_, err := svc.CreateSelection(context.Background(), selector.ID, pending.ParticipantNumber)

	// Неодобренная цель неотличима от несуществующей.
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestCreateSelection_SelfSelectionRejected(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)

	_, err := svc.CreateSelection(context.Background(), selector.ID, selector.ParticipantNumber)

	assert.ErrorIs(t, err, ErrSelfSelection)
}

func TestCreateSelection_DuplicateConflict(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	selected := participants.add(102, models.CheckStatusApproved, models.GenderFemale)

	_, err := svc.CreateSelection(context.Background(), selector.ID, selected.ParticipantNumber)
	require.NoError(t, err)

	_, err = svc.CreateSelection(context.Background(), selector.ID, selected.ParticipantNumber)
	assert.ErrorIs(t, err, ErrSelectionConflict)
}

func TestCreateSelection_OppositeDirectionAllowed(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	a := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	b := participants.add(102, models.CheckStatusApproved, models.GenderFemale)

	_, err := svc.CreateSelection(context.Background(), a.ID, b.ParticipantNumber)
	require.NoError(t, err)

	// Обратное направление - отдельное ребро, не дубликат.
	_, err = svc.CreateSelection(context.Background(), b.ID, a.ParticipantNumber)
	require.NoError(t, err)

	listing, err := svc.ListAllSelections(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Total)
	assert.Equal(t, 1, listing.MutualMatchCount)
}

func TestCreateSelection_NumberResolvedWithinSelectorEvent(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	friday := "e1a4f5d0-0000-0000-0000-000000000001"
	saturday := "e1a4f5d0-0000-0000-0000-000000000002"

	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	selector.EventID = &friday
	target := participants.add(200, models.CheckStatusApproved, models.GenderFemale)
	target.EventID = &friday
	// Тот же номер на другом событии - другой человек.
	namesake := participants.add(200, models.CheckStatusApproved, models.GenderFemale)
	namesake.EventID = &saturday

	selection, err := svc.CreateSelection(context.Background(), selector.ID, 200)

	require.NoError(t, err)
	assert.Equal(t, target.ID, selection.SelectedID)
	assert.NotEqual(t, namesake.ID, selection.SelectedID)
}

func TestCreateSelection_TargetFromOtherEventNotFound(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	friday := "e1a4f5d0-0000-0000-0000-000000000001"
	saturday := "e1a4f5d0-0000-0000-0000-000000000002"

	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	selector.EventID = &friday
	stranger := participants.add(200, models.CheckStatusApproved, models.GenderFemale)
	stranger.EventID = &saturday

	_, err := svc.CreateSelection(context.Background(), selector.ID, 200)

	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestRevokeSelection_Idempotent(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	selector := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	selected := participants.add(102, models.CheckStatusApproved, models.GenderFemale)

	selection, err := svc.CreateSelection(context.Background(), selector.ID, selected.ParticipantNumber)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSelection(context.Background(), selector.ID, selection.ID))
	// Повторная отмена - тоже успех.
	require.NoError(t, svc.RevokeSelection(context.Background(), selector.ID, selection.ID))

	mine, err := svc.ListMySelections(context.Background(), selector.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestRevokeSelection_ForeignSelectionUntouched(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	a := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	b := participants.add(102, models.CheckStatusApproved, models.GenderFemale)
	c := participants.add(103, models.CheckStatusApproved, models.GenderFemale)

	selection, err := svc.CreateSelection(context.Background(), a.ID, b.ParticipantNumber)
	require.NoError(t, err)

	// Чужой участник "отменяет" чужую выборку: тихий успех, запись цела.
	require.NoError(t, svc.RevokeSelection(context.Background(), c.ID, selection.ID))

	mine, err := svc.ListMySelections(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListMySelections_OnlyOwnAndNoMutualFlag(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	a := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	b := participants.add(102, models.CheckStatusApproved, models.GenderFemale)

	_, err := svc.CreateSelection(context.Background(), a.ID, b.ParticipantNumber)
	require.NoError(t, err)
	_, err = svc.CreateSelection(context.Background(), b.ID, a.ParticipantNumber)
	require.NoError(t, err)

	mine, err := svc.ListMySelections(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].SelectorID)
	// Пара взаимна, но в собственном списке это не раскрывается.
	assert.False(t, mine[0].IsMutual)
}

func TestListAllSelections_MutualAnnotation(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	a := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	b := participants.add(102, models.CheckStatusApproved, models.GenderFemale)
	c := participants.add(103, models.CheckStatusApproved, models.GenderFemale)

	_, err := svc.CreateSelection(context.Background(), a.ID, b.ParticipantNumber)
	require.NoError(t, err)
	_, err = svc.CreateSelection(context.Background(), b.ID, a.ParticipantNumber)
	require.NoError(t, err)
	_, err = svc.CreateSelection(context.Background(), a.ID, c.ParticipantNumber)
	require.NoError(t, err)

	listing, err := svc.ListAllSelections(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, listing.Total)
	assert.Equal(t, 1, listing.MutualMatchCount)
	for _, s := range listing.Selections {
		require.NotNil(t, s.Selector)
		require.NotNil(t, s.Selected)
		if s.SelectedID == c.ID {
			assert.False(t, s.IsMutual)
		} else {
			assert.True(t, s.IsMutual)
		}
	}
}

func TestResetSelections_ClearsEverything(t *testing.T) {
	svc, participants, _ := newSelectionServiceForTest(t)
	a := participants.add(101, models.CheckStatusApproved, models.GenderMale)
	b := participants.add(102, models.CheckStatusApproved, models.GenderFemale)

	_, err := svc.CreateSelection(context.Background(), a.ID, b.ParticipantNumber)
	require.NoError(t, err)

	require.NoError(t, svc.ResetSelections(context.Background()))

	listing, err := svc.ListAllSelections(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, listing.Total)
	assert.Equal(t, 0, listing.MutualMatchCount)
}
