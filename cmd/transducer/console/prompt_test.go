package console

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptText(t *testing.T) {
	assert.Equal(t, "release bus? [N/y]: ", promptText("release bus?", []string{No, Yes}))
}

func TestMatchAnswer(t *testing.T) {
	constraints := []string{No, Yes}
	assert.Equal(t, No, matchAnswer("", constraints))
	assert.Equal(t, Yes, matchAnswer(" Y ", constraints))
	assert.Equal(t, No, matchAnswer("maybe", constraints))
}

func TestOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	w, errw := writer, errWriter
	SetOutput(&out, &errOut)
	defer SetOutput(w, errw)

	PInfof(PictoPin, "address %#x", 0x28)
	Errorf("bus: %s", errors.New("nack"))
	assert.Equal(t, PictoPin+" address 0x28\n", out.String())
	assert.Contains(t, errOut.String(), "bus: nack")
}
