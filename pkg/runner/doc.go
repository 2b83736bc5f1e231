/*
Package runner converts many TPTP problem files in one go.

It reads a problem list (one path per line), transforms the files with bounded
parallelism and writes either one output file per problem, named after the
problem's position in the list, or a single framed batch stream in list order.

# Usage

	paths, err := runner.ReadList(listFile)
	if err != nil {
		log.Fatal(err)
	}

	r := runner.New(conv,
		runner.WithWorkers(8),
		runner.WithFormat(codec.FormatProto),
	)
	report, err := r.WriteDir(ctx, paths, "out")

Without WithKeepGoing the first failure cancels the remaining work and is
returned. With it, failures are recorded in the Report and the batch goes on.
*/
package runner
