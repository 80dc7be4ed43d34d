// Package edgardex provides a Go client for the edgardex SEC filing store:
// document tracking, search and crawl metrics over a memory, file or redis
// backend.
//
// # Service API — explicit queries
//
//	client, _ := edgardex.Open(ctx, edgardex.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	id, _ := client.Documents().Track(ctx, edgardex.Filing{
//	    CompanyName: "Apple Inc.",
//	    Form:        "10-K",
//	    FilingDate:  filed,
//	    URL:         "https://www.sec.gov/Archives/aapl-10k.htm",
//	})
//	_ = client.Documents().MarkProcessed(ctx, url, true, "")
//
//	page, _ := client.Search().Company(ctx, edgardex.CompanyQuery{CompanyName: "apple"})
//	stats, _ := client.Stats().Crawl(ctx, "")
//
// # Builder API — fluent queries
//
//	hits, _ := client.Find().
//	    Text("climate risk").
//	    Forms("10-K").
//	    Between(start, end).
//	    Page(1, 20).
//	    Do(ctx)
package edgardex
