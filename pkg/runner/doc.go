/*
Package runner drives an arbor tree tick after tick.

A Tree is not safe for concurrent use. The Runner owns the only mutex around it, so other
goroutines (an HTTP introspection server, a debugger) read status and blackboard contents
through the Runner while it ticks.

# Key Features

  - Stop rules: a tick budget, a set of root states that end the run, and stop-on-error.
  - Durable execution: the blackboard is saved to a ports.SnapshotStore after every tick
    and restored by Resume.
  - Coordination: an optional ports.DistributedLocker keeps two processes from ticking the
    same tree at once.

# Usage

	r := runner.New(tree,
		runner.WithInterval(100*time.Millisecond),
		runner.WithStopOn(domain.Success, domain.Failure),
		runner.WithStore(store),
	)
	if err := r.Resume(ctx); err != nil {
		log.Fatal(err)
	}
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
