/*
Package cli provides command-line helpers for the pricebook command.

Output Formatting:

Results are written in text, JSON, YAML or CSV form. Types implementing
Tabular render as an aligned grid in text mode and as rows in CSV mode;
status cells built with Mark are colored when the terminal supports it:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
