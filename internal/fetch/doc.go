// Package fetch implements the HTTP collaborator used by the crawler.
//
// A Fetcher turns one absolute URL into a model.Page: the final
// address after redirects, the declared content type, the decoded body
// text, and the original byte length. Transport failures and error
// statuses surface as ordinary errors; the crawler treats them as
// per-address failures and moves on.
//
// Decoding is deliberately forgiving. Valid UTF-8 is used as-is,
// otherwise the declared charset and a statistical detector are tried,
// and as a last resort the body is decoded as ISO-8859-1, which maps
// every byte to a character and cannot fail. A malformed body never
// aborts a fetch.
package fetch
