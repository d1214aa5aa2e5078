// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the entity kinds that receive generated IDs.
const (
	QuestionPrefix  = "q-"
	TaskPrefix      = "tk-"
	MilestonePrefix = "ms-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// NewQuestionID returns a new unique question ID.
func NewQuestionID() (string, error) {
	return GenerateWithPrefix(QuestionPrefix)
}

// NewTaskID returns a new unique task ID.
func NewTaskID() (string, error) {
	return GenerateWithPrefix(TaskPrefix)
}

// NewMilestoneID returns a new unique milestone ID.
func NewMilestoneID() (string, error) {
	return GenerateWithPrefix(MilestonePrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
