package session

const (
	// KeyPrefixSession is the prefix for session hashes
	KeyPrefixSession = "apimap:session:"
)

// RedisKey returns the Redis hash key holding a session
func RedisKey(sid string) string {
	return KeyPrefixSession + sid
}
