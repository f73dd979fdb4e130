package db

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateKeyCode = 11000

// IsDuplicateKeyOn reports whether err is a duplicate key violation of the named index.
func IsDuplicateKeyOn(err error, index string) bool {
	msg := duplicateKeyIndex(err)
	return msg != "" && strings.Contains(msg, "index: "+index+" ")
}

// duplicateKeyIndex returns the server message of the first duplicate key
// write error, which names the violated index.
func duplicateKeyIndex(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == duplicateKeyCode {
				return e.Message
			}
		}
	}
	return ""
}
