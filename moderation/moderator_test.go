package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censors_Forbidden_Word(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"secret"}, '*')
	req.NoError(err)

	// When a message contains a forbidden word
	censored := moderator.Censor("My SECRET plan")

	// Then the word is masked and the rest is untouched
	req.Equal("My ****** plan", censored)
}

func TestModerator_Censors_Leet_Speak_Variants(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"secret"}, '*')
	req.NoError(err)

	req.Equal("My ****** plan", moderator.Censor("My s3cr3t plan"))
	req.Equal("My ****** plan", moderator.Censor("My 5ecr3t plan"))
}

func TestModerator_Leaves_Clean_Text_Untouched(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"secret"}, '*')
	req.NoError(err)

	req.Equal("Nothing to see here", moderator.Censor("Nothing to see here"))
}

func TestModerator_Empty_Word_List_Is_Pass_Through(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator(nil, '*')
	req.NoError(err)

	req.Equal("My secret plan", moderator.Censor("My secret plan"))
}

func TestModerator_Censors_Multiple_Words(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"secret", "hidden"}, '#')
	req.NoError(err)

	req.Equal("a ###### and a ###### thing", moderator.Censor("a secret and a hidden thing"))
}
