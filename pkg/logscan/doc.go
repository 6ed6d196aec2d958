// Package logscan finds the restart point of a simulation run from its log.
//
// A run log records every plot and checkpoint file the simulation closes:
//
//	[IO_writeCheckpoint] close: type=checkpoint name=run1_hdf5_chk_0003
//	[IO_writePlotfile] close: type=plotfile name=run1_hdf5_plt_cnt_0012
//
// The restart point is the most recent checkpoint, paired with one past the
// most recent plot closed before it, so a resumed run neither overwrites nor
// skips plot numbers.
//
// # Usage
//
//	point, err := logscan.Scan("run1_", "/scratch/run1/run1.log")
//	if errors.Is(err, domain.ErrScan) {
//	    // nothing to restart from
//	}
package logscan
