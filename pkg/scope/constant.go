package scope

import "time"

// TokenExpirationDuration is the lifetime of tokens minted by CreateToken.
const TokenExpirationDuration = 12 * time.Hour
