// Package leadscout is an in-process client for generative lead search:
// it asks a generative model (Gemini with Google Search by default) for
// public Instagram profiles matching a profession and returns them merged
// and deduplicated.
//
//	client, _ := leadscout.New(ctx, leadscout.WithGemini(os.Getenv("GEMINI_API_KEY")))
//	res, err := client.Search(ctx, "Tatuador em São Paulo", leadscout.Filters{MinFollowers: "1000"})
//	if err != nil {
//	    fmt.Println(leadscout.UserMessage(err))
//	    return
//	}
//	for _, p := range res.Profiles {
//	    fmt.Println(p.Username, p.ContactURL)
//	}
package leadscout
