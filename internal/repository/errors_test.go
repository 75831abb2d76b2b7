package repository

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := errors.New("Error 1062 (23000): Duplicate entry 'the-matrix-1999' for key 'movies.movies_slug_idx'")
	if !isDuplicateKey(dup) {
		t.Error("duplicate entry error not recognized")
	}
	if !isDuplicateKey(fmt.Errorf("insert movie: %w", dup)) {
		t.Error("wrapped duplicate entry error not recognized")
	}
	if isDuplicateKey(errors.New("Error 1452 (23000): Cannot add or update a child row")) {
		t.Error("foreign key error misclassified as duplicate")
	}
	if isDuplicateKey(nil) {
		t.Error("nil error misclassified as duplicate")
	}
}
