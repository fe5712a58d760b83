/*
Package authsdk provides a Go client for the EduNexia authentication API and
the wire types shared with the server.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (login, register, health)
  - Session: operations that need a bearer credential

	client := authsdk.NewSDKClient("https://api.edunexia.example")

	health, err := client.GetReadiness(ctx)

	session, err := client.AuthenticateWithPassword(ctx, "student01", "password")
	me, err := session.Me(ctx)

Google sign-in happens in a browser. Open client.GoogleLoginURL(); the
frontend receives the credential in the token query parameter of
/auth/callback and can wrap it with NewSessionFromToken.

# Errors

Failed calls return *APIError. Compare with errors.Is against the
predefined values:

	_, err := client.Register(ctx, req)
	if errors.Is(err, authsdk.ErrConflict) {
		// username or email taken
	}

Validation failures carry per-field messages in Details. RegisterRequest
has a Validate method applying the same rules as the server; Register calls
it first unless ValidateRequests is false.

# Thread Safety

SDKClient and Session are safe for concurrent use.
*/
package authsdk
