// Package httpx is a thin convenience layer over net/http for talking to
// JSON web APIs.
//
// A Client is bound to one base URL and adds to every request:
//   - Authorization: Bearer <token>, from a TokenSource. CachedTokenSource
//     fetches an OAuth2 token once and reuses it until it expires.
//   - the UserId header, when configured
//   - Accept-Encoding: gzip, deflate, with transparent response decoding
//
// Failed responses become *HTTPError, whose Message and ModelState are
// parsed from the common Web API, validation-problem and OAuth error bodies.
//
// The package also provides the server side of compression: the Compress
// and Decompress middlewares and NegotiateEncoding.
//
//	c, err := httpx.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	var user User
//	if err := c.GetJSON(ctx, "users/42", &user); err != nil {
//		var herr *httpx.HTTPError
//		if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
//			...
//		}
//	}
package httpx
