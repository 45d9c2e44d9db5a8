package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruta_cafe/internal/models"
)

func place(id, createdBy uint, status models.Status) models.Place {
	p := models.Place{Status: status, CreatedBy: createdBy}
	p.ID = id
	return p
}

func statuses(entities []models.Place) []models.Status {
	out := make([]models.Status, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Status)
	}
	return out
}

func ids(entities []models.Place) []uint {
	out := make([]uint, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func sampleSet() []models.Place {
	return []models.Place{
		place(1, 7, models.StatusApproved),
		place(2, 7, models.StatusPending),
		place(3, 9, models.StatusRejected),
		place(4, 9, models.StatusApproved),
		place(5, 7, models.StatusRejected),
	}
}

func TestVisible_VisitorAndUserSeeOnlyApproved(t *testing.T) {
	all := sampleSet()

	for _, role := range []models.Role{models.RoleVisitor, models.RoleUser} {
		got := Visible(all, Actor{Role: role, ID: 42})
		assert.Equal(t, []uint{1, 4}, ids(got))
		for _, s := range statuses(got) {
			assert.Equal(t, models.StatusApproved, s)
		}
	}
}

func TestVisible_UnknownRoleFallsBackToVisitor(t *testing.T) {
	all := sampleSet()
	got := Visible(all, Actor{Role: models.Role(99), ID: 7})
	assert.Equal(t, []uint{1, 4}, ids(got))
}

func TestVisible_TechnicianSeesOwnWorkPlusApproved(t *testing.T) {
	all := sampleSet()
	got := Visible(all, Actor{Role: models.RoleTechnician, ID: 7})

	// Own entities in every state, plus the other creator's approved one.
	assert.Equal(t, []uint{1, 2, 4, 5}, ids(got))
	for _, e := range got {
		assert.True(t, e.CreatedBy == 7 || e.Status == models.StatusApproved)
	}
}

func TestVisible_AdministratorSeesEverything(t *testing.T) {
	all := sampleSet()
	got := Visible(all, Actor{Role: models.RoleAdministrator, ID: 1})
	assert.Equal(t, ids(all), ids(got))
}

func TestVisible_PreservesInputOrder(t *testing.T) {
	all := []models.Place{
		place(4, 9, models.StatusApproved),
		place(1, 7, models.StatusApproved),
	}
	got := Visible(all, Actor{Role: models.RoleVisitor})
	assert.Equal(t, []uint{4, 1}, ids(got))
}

func TestAuthorize_RejectionRequiresComment(t *testing.T) {
	admin := Actor{Role: models.RoleAdministrator, ID: 1}

	for _, comment := range []string{"", "   "} {
		_, err := Authorize(models.StatusRejected, comment, admin)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "comentario de rechazo requerido", vErr.Reason)
	}

	dec, err := Authorize(models.StatusRejected, "motivo X", admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, dec.Status)
	assert.Equal(t, "motivo X", dec.RejectionComment)
}

func TestAuthorize_ApprovalClearsRejectionComment(t *testing.T) {
	dec, err := Authorize(models.StatusApproved, "irrelevante", Actor{Role: models.RoleAdministrator})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, dec.Status)
	assert.Empty(t, dec.RejectionComment)
}

func TestAuthorize_NonAdminCannotTransition(t *testing.T) {
	for _, role := range []models.Role{models.RoleVisitor, models.RoleTechnician, models.RoleUser} {
		_, err := Authorize(models.StatusApproved, "", Actor{Role: role, ID: 7})
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = Authorize(models.StatusRejected, "motivo", Actor{Role: role, ID: 7})
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestAuthorize_CannotTransitionBackToPending(t *testing.T) {
	_, err := Authorize(models.StatusPending, "", Actor{Role: models.RoleAdministrator})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "estado", vErr.Field)
}

func TestAuthorize_ApprovalIsIdempotent(t *testing.T) {
	admin := Actor{Role: models.RoleAdministrator, ID: 1}
	p := place(1, 7, models.StatusPending)

	for i := 0; i < 2; i++ {
		dec, err := Authorize(models.StatusApproved, "", admin)
		require.NoError(t, err)
		p.Status = dec.Status
		p.RejectionComment = dec.RejectionComment
	}

	assert.Equal(t, models.StatusApproved, p.Status)
	assert.Empty(t, p.RejectionComment)
}

func TestCanCreate_BlocksSecondPending(t *testing.T) {
	existing := []models.Place{place(1, 7, models.StatusPending)}
	assert.False(t, CanCreate(existing, 7))

	// A different creator is not blocked by someone else's pending row.
	assert.True(t, CanCreate(existing, 8))

	// Once reviewed, the gate opens again.
	existing[0].Status = models.StatusApproved
	assert.True(t, CanCreate(existing, 7))

	existing[0].Status = models.StatusRejected
	assert.True(t, CanCreate(existing, 7))
}

func TestCanCreate_EmptyList(t *testing.T) {
	assert.True(t, CanCreate([]models.Place{}, 7))
}

func TestCanEdit(t *testing.T) {
	rejected := place(1, 7, models.StatusRejected)

	assert.True(t, CanEdit(rejected, Actor{Role: models.RoleAdministrator, ID: 1}))
	assert.True(t, CanEdit(rejected, Actor{Role: models.RoleTechnician, ID: 7}))
	assert.False(t, CanEdit(rejected, Actor{Role: models.RoleTechnician, ID: 8}))
	assert.False(t, CanEdit(rejected, Actor{Role: models.RoleUser, ID: 7}))
	assert.False(t, CanEdit(rejected, Actor{Role: models.RoleVisitor}))
}

func TestCanViewContact(t *testing.T) {
	user := Actor{Role: models.RoleUser, ID: 3}
	creator := Actor{Role: models.RoleTechnician, ID: 7}
	admin := Actor{Role: models.RoleAdministrator, ID: 1}

	assert.True(t, CanViewContact(models.StatusApproved, user))
	assert.True(t, CanViewContact(models.StatusPending, creator))

	// Rejection hides contact from everyone but administrators,
	// the creator included.
	assert.False(t, CanViewContact(models.StatusRejected, user))
	assert.False(t, CanViewContact(models.StatusRejected, creator))
	assert.True(t, CanViewContact(models.StatusRejected, admin))
}

// Full lifecycle: technician submits, admin approves one and rejects
// another, visibility follows along.
func TestModerationLifecycle(t *testing.T) {
	admin := Actor{Role: models.RoleAdministrator, ID: 1}
	tech := Actor{Role: models.RoleTechnician, ID: 7}
	user := Actor{Role: models.RoleUser, ID: 3}

	p1 := place(1, 7, models.StatusPending)
	places := []models.Place{p1}

	// Gate closed while P1 is pending.
	require.False(t, CanCreate(places, 7))

	// Admin approves P1; gate reopens.
	dec, err := Authorize(models.StatusApproved, "", admin)
	require.NoError(t, err)
	places[0].Status = dec.Status
	places[0].RejectionComment = dec.RejectionComment
	require.True(t, CanCreate(places, 7))

	// Second submission gets rejected with a reason.
	p2 := place(2, 7, models.StatusPending)
	places = append(places, p2)
	dec, err = Authorize(models.StatusRejected, "Ubicación duplicada", admin)
	require.NoError(t, err)
	places[1].Status = dec.Status
	places[1].RejectionComment = dec.RejectionComment
	assert.Equal(t, models.StatusRejected, places[1].Status)
	assert.Equal(t, "Ubicación duplicada", places[1].RejectionComment)

	// A user sees only the approved place; the technician sees both.
	assert.Equal(t, []uint{1}, ids(Visible(places, user)))
	assert.Equal(t, []uint{1, 2}, ids(Visible(places, tech)))
}
