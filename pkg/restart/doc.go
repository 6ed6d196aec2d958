// Package restart prepares a FLASH simulation directory for a restart.
//
// A Restarter ties the log scanner and the parameter rewriter to one run:
// it reads basenm and log_file from the parameter file when they are not
// given, finds the restart point in the log, rewrites the parameter file and
// records the edit in the run's journal.
//
//	r, err := restart.New(restart.Config{SimDir: "/scratch/run1"})
//	if err != nil {
//	    return err
//	}
//	res, err := r.Restart(ctx)
package restart
