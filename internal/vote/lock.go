package vote

import "hash/crc32"

// LockKey identifies the critical section for one user's answer to one
// question. Submissions for the same pair serialize; everything else runs
// in parallel.
type LockKey struct {
	UserUUID     string
	QuestionCode string
}

// Classes derives the two int32 classes for the two-key form of
// pg_advisory_xact_lock. Hashing the components separately keeps the key
// space of users and questions independent instead of folding both into a
// single checksum.
func (k LockKey) Classes() (int32, int32) {
	return int32(crc32.ChecksumIEEE([]byte(k.UserUUID))),
		int32(crc32.ChecksumIEEE([]byte(k.QuestionCode)))
}
