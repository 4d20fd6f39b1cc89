package history

import "time"

// DefaultTTL is how long advice records are kept when the deployment
// does not override ADVICE_HISTORY_TTL. Advice goes stale as a
// household's finances change; 90 days keeps a useful review window
// without accumulating years of obsolete recommendations.
const DefaultTTL = 90 * 24 * time.Hour
