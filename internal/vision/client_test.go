package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatientBlock(t *testing.T) {
	t.Parallel()

	assert.Empty(t, patientBlock(nil))

	block := patientBlock(&PatientContext{Name: "Jane", Duration: "2 weeks"})
	assert.Contains(t, block, "- Name: Jane")
	assert.Contains(t, block, "- Symptoms Duration: 2 weeks")
	assert.Contains(t, block, "- Symptoms Description: Not provided")
}

func TestOrNotProvided(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Not provided", orNotProvided(""))
	assert.Equal(t, "Not provided", orNotProvided("   "))
	assert.Equal(t, "itching", orNotProvided("itching"))
}
