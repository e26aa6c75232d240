package provider

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	p := &Provider{Status: StatusPendingApproval}

	assert.ErrorIs(t, p.Deactivate(), ErrPendingDeactivation)
	assert.ErrorIs(t, p.AddService(Service{Name: "Fisioterapia"}), ErrNotActive)

	require.NoError(t, p.Approve())
	assert.Equal(t, StatusActive, p.Status)
	assert.ErrorIs(t, p.Approve(), ErrNotPending)

	require.NoError(t, p.AddService(Service{Name: "Fisioterapia", Price: 120}))
	require.Len(t, p.Services, 1)
	require.NoError(t, p.RemoveService(p.Services[0].ID))
	assert.ErrorIs(t, p.RemoveService(uuid.New()), ErrServiceNotFound)

	require.NoError(t, p.Deactivate())
	assert.Equal(t, StatusInactive, p.Status)
}

func TestInsurers(t *testing.T) {
	p := &Provider{}
	id := uuid.New()

	p.AddInsurer(id)
	p.AddInsurer(id)
	assert.Len(t, p.AcceptedInsurers, 1)
	assert.True(t, p.AcceptsInsurer(id))

	p.RemoveInsurer(id)
	assert.False(t, p.AcceptsInsurer(id))
}

func TestAvailability(t *testing.T) {
	assert.Zero(t, (&Provider{}).Availability())

	p := &Provider{WorkingHours: &WorkingHours{
		Monday: "08:00-18:00", Tuesday: "08:00-18:00", Wednesday: "08:00-18:00",
		Thursday: "08:00-18:00", Friday: "08:00-18:00", Saturday: "08:00-12:00",
		Sunday: "08:00-12:00",
	}}
	assert.InDelta(t, 100.0, p.Availability(), 0.001)

	p.WorkingHours.Saturday = ""
	p.WorkingHours.Sunday = " "
	assert.InDelta(t, 71.428, p.Availability(), 0.001)
}

func TestHasValidCredentials(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(1, 0, 0)

	assert.False(t, (&Provider{}).HasValidCredentials(now))
	assert.True(t, (&Provider{Credentials: []Credential{{Type: CredentialCNES, Number: "1234567"}}}).HasValidCredentials(now))
	assert.True(t, (&Provider{Credentials: []Credential{{Type: CredentialCRM, ExpirationDate: &future}}}).HasValidCredentials(now))
	assert.False(t, (&Provider{Credentials: []Credential{
		{Type: CredentialCRM, ExpirationDate: &future},
		{Type: CredentialCNES, ExpirationDate: &past},
	}}).HasValidCredentials(now))
}

func TestApply_RejectsRatingOutOfRange(t *testing.T) {
	p := &Provider{Name: "Clínica Vida"}
	bad := 5.5
	name := "Outro nome"

	assert.ErrorIs(t, p.Apply(&UpdateProviderCommand{Rating: &bad, Name: &name}), ErrInvalidRating)
	assert.Equal(t, "Clínica Vida", p.Name)

	good := 4.5
	require.NoError(t, p.Apply(&UpdateProviderCommand{Rating: &good}))
	assert.Equal(t, 4.5, *p.Rating)
}

func TestValidateRegistration(t *testing.T) {
	cmd := &CreateProviderCommand{
		Name:        "Clínica Vida",
		Type:        TypeClinica,
		Document:    "11.222.333/0001-81",
		Credentials: []Credential{{Type: CredentialCNES, Number: "1234567"}},
		Specialties: []Specialty{SpecialtyGeral},
		Phone:       "11987654321",
		Email:       "contato@clinicavida.com.br",
	}
	assert.Empty(t, ValidateRegistration(cmd))

	cmd.Document = "111.444.777-35"
	assert.Empty(t, ValidateRegistration(cmd))

	cmd.Document = "123"
	cmd.Specialties = []Specialty{"MAGIA"}
	cmd.Credentials = nil
	assert.Equal(t, []string{
		"document must be a valid CPF or CNPJ",
		"specialty MAGIA is invalid",
		"at least one credential is required",
	}, ValidateRegistration(cmd))
}
