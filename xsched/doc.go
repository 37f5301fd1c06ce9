// Package xsched is a client for the xsched social media scheduling API.
//
//	client, err := xsched.New(os.Getenv("XSCHED_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	post, err := client.Posts.Create(ctx, xsched.CreatePostInput{
//		Content:    "hello",
//		AccountIDs: []string{"acc_1"},
//		PublishNow: true,
//	})
//
// Every call performs exactly one HTTP round-trip bounded by the configured
// timeout. Failures are returned as *APIError; branch on its Code.
package xsched
