package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-cms-animations:"

// UUID derives a deterministic UUID from key with go-hashid. Keys should be
// prefixed by entity type so different records never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// AnimationUUID is the row id of the definition registered under key.
func AnimationUUID(key string) uuid.UUID {
	return UUID(namespace + "animation:" + strings.ToLower(strings.TrimSpace(key)))
}

// BindingUUID is the row id of the binding stored for blockID.
func BindingUUID(blockID string) uuid.UUID {
	return UUID(namespace + "binding:" + strings.TrimSpace(blockID))
}
