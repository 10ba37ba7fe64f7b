// Package postguard provides a Go client for the postguard content index:
// duplicate checks for new blog posts and commits of accepted posts.
//
// The index lives in a JSON file, in Redis (RedisJSON) or in memory.
//
//	client, _ := postguard.New(ctx, postguard.WithFile("data/content-index.json"))
//	defer client.Close()
//
//	v, _ := client.Check(ctx, postguard.Candidate{
//	    Type:     "paper",
//	    Title:    "Attention Is All You Need",
//	    Keywords: []string{"attention", "transformer"},
//	    ArxivID:  "1706.03762",
//	})
//	if !v.IsDuplicate {
//	    _, _ = client.Add(ctx, post)
//	}
package postguard
