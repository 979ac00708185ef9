// Manual smoke harness: exercises the read-only API paths against real
// GitHub using the current directory's repository. Creates nothing.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/robby/loose-end/internal/auth"
	"github.com/robby/loose-end/internal/gh"
	"github.com/robby/loose-end/internal/gitrepo"
)

func main() {
	repo, err := gitrepo.NewLocator().Resolve()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Repository: %s\n", repo)

	creds, err := auth.NewResolver(false, nil).Resolve()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Token source: %s\n\n", creds.Source)

	ctx := context.Background()

	object := gh.NewObjectClient(creds, nil)
	owner, err := object.OwnerInfo(ctx, repo)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Owner: %s (%s)\n\n", owner.Login, owner.Type)

	graph := gh.NewGraphClient(creds, nil)
	projects, err := graph.ListProjects(ctx, owner.Login, owner.Type)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Projects (%d):\n", len(projects))
	for _, p := range projects {
		fmt.Printf("  #%d: %s (ID=%s)\n", p.Number, p.Title, p.ID)
	}
}
