package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gatekeeper/gatecheck/pkg/logme"
	"github.com/gatekeeper/gatecheck/pkg/policy"
	"github.com/gatekeeper/gatecheck/pkg/report"
	"github.com/gatekeeper/gatecheck/pkg/runner"
)

func main() {
	var (
		sastFlag   = flag.String("sast", "", "Path to the SAST (Bandit) report file")
		scaFlag    = flag.String("sca", "", "Path to the SCA (Safety) report file")
		dastFlag   = flag.String("dast", "", "Path to the DAST (OWASP ZAP) report file")
		configFlag = flag.String("config", "", "Path to YAML configuration file")
		jsonFlag   = flag.Bool("json", false, "Emit the JSON artifact on stdout instead of the CLI summary")
		outputFlag = flag.String("output", "", "Also write the JSON artifact to this file")
	)

	flag.Parse()

	logme.Debugln("sast report: ", *sastFlag)
	logme.Debugln("sca report: ", *scaFlag)
	logme.Debugln("dast report: ", *dastFlag)
	logme.Debugln("config file: ", *configFlag)

	var cfg runner.Config
	if *configFlag != "" {
		var err error
		cfg, err = runner.LoadConfig(*configFlag)
		if err != nil {
			logme.Errorln(fmt.Errorf("couldn't read configuration: %w", err))
			os.Exit(report.ExitNotEvaluated)
		}
	}

	inputs := runner.Inputs{SAST: *sastFlag, SCA: *scaFlag, DAST: *dastFlag}
	artifact, err := evaluate(inputs, cfg.Policy())
	if err != nil {
		logme.Errorln(fmt.Errorf("could not evaluate: %w", err))
		os.Exit(report.ExitNotEvaluated)
	}

	if *outputFlag != "" {
		data, err := report.MarshalJSON.Marshal(artifact)
		if err != nil {
			logme.Errorln(fmt.Errorf("couldn't marshal artifact: %w", err))
			os.Exit(report.ExitNotEvaluated)
		}
		if err := os.WriteFile(*outputFlag, data, 0o644); err != nil {
			logme.Errorln(fmt.Errorf("couldn't write artifact: %w", err))
			os.Exit(report.ExitNotEvaluated)
		}
	}

	marshaler := report.Marshaler(report.MarshalCLI)
	if *jsonFlag || cfg.Global.JSONOutput {
		marshaler = report.MarshalJSON
	}
	out, err := marshaler.Marshal(artifact)
	if err != nil {
		logme.Errorln(fmt.Errorf("couldn't marshal output: %w", err))
		os.Exit(report.ExitNotEvaluated)
	}
	fmt.Fprint(os.Stdout, string(out))

	os.Exit(report.ExitCode(artifact.Verdict))
}

// evaluate runs the full pipeline: ingest every supplied report, apply
// the policy, and assemble the output artifact.
func evaluate(in runner.Inputs, p policy.Policy) (report.Artifact, error) {
	findings, err := runner.Ingest(in)
	if err != nil {
		return report.Artifact{}, err
	}
	return report.Artifact{
		Verdict:  policy.Evaluate(p, findings),
		Findings: findings,
	}, nil
}
