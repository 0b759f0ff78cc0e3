// Package media defines the core item, category, and source types shared by
// the recommendation pipeline and the persistent stores.
package media
