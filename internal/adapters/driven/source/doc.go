// Package source routes dataset locators to the fetcher that handles them.
//
// Subpackages:
//   - httpsource: HTTP(S) locators with cache-busting and rate limiting
//   - filesource: local paths and file:// URLs, with change watching
package source
