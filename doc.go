// Package odtree learns optimal decision trees from binary feature data by
// cached branch-and-bound search.
//
// Unlike greedy induction, the search explores the full space of trees under
// depth and support constraints and returns a tree whose training error is
// provably minimal, or the best incumbent found when a time or search budget
// runs out.
//
// # Quick Start
//
//	train, test, _ := dataset.ReadFile("anneal.txt")
//
//	learner, _ := odtree.New(
//		odtree.WithMaxDepth(4),
//		odtree.WithMinSupport(5),
//		odtree.WithTimeout(10*time.Minute),
//	)
//
//	if err := learner.Fit(ctx, train); err != nil {
//		log.Fatal(err)
//	}
//
//	tree, _ := learner.Tree()
//	fmt.Println(tree.RootError(), learner.IsOptimal())
//	fmt.Println(learner.Evaluate(test))
//
// # Modes
//
// Three learners share the same cover and bound machinery:
//
//	// 1. EXACT: full-depth branch-and-bound (default).
//	//    Provably optimal, worst-case exponential.
//	odtree.New(odtree.WithMaxDepth(4))
//
//	// 2. DEPTH2: the pairwise closed-form solver alone.
//	//    Optimal for depth <= 2 in polynomial time.
//	odtree.New(odtree.WithMode(odtree.ModeDepth2), odtree.WithMaxDepth(2))
//
//	// 3. GREEDY: two-level lookahead, any depth, near-linear time.
//	odtree.New(odtree.WithMode(odtree.ModeGreedy), odtree.WithMaxDepth(10))
//
// # Anytime Search
//
// With a restart schedule the exact mode becomes anytime: each restart
// explores a little further from the heuristic's preferred path, improving
// the incumbent until optimality is proven or time runs out.
//
//	odtree.New(
//		odtree.WithMaxDepth(5),
//		odtree.WithHeuristic(odtree.HeuristicInformationGain),
//		odtree.WithSchedule(odtree.ScheduleLuby, 1),
//		odtree.WithTimeout(time.Minute),
//	)
package odtree
