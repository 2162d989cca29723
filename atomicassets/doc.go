// Package atomicassets provides a client for the AtomicAssets NFT API on the WAX chain.
//
// Every endpoint method builds a query string from its arguments, issues one
// GET through a shared retrying session, decodes the JSON envelope and
// extracts a fixed field from it.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := atomicassets.NewClient("", logger,
//		atomicassets.WithRetries(3),
//		atomicassets.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	owner, err := client.GetAssetOwner(ctx, "1099511627776")
//
//	ids, err := client.GetAssets(ctx,
//		atomicassets.A("collection_name", "alien.worlds"),
//		atomicassets.A("is_transferable", true),
//		atomicassets.A("limit", 100),
//	)
//
// Optional arguments are written into the query string as given: booleans
// become "true"/"false", numbers their decimal form and string slices are
// joined with commas. Values are not percent-encoded.
//
// # Retries
//
// Requests are retried on connection errors and on 502, 503 and 504
// responses, waiting BackoffFactor * 2^(n-1) before retry n. See RetryPolicy.
//
// # Error Handling
//
//   - TransportError: the request could not be completed within the retry budget
//   - APIError: non-2xx response with a JSON body; Payload holds the body
//   - StatusError: non-2xx response without a JSON body
//   - DecodeError: 2xx response that is not valid JSON
//   - LookupError: the expected field is missing (ErrMissingField) or data is empty (ErrNoData)
//   - ArgumentError: an argument cannot be placed in a query string (ErrInvalidArgument)
//
//	var apiErr *atomicassets.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle missing asset
//	}
package atomicassets
