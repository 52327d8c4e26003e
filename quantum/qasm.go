package quantum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex            = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	cregRegex            = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\];?$`)
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + angleExprPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + angleExprPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	u3Regex              = regexp.MustCompile(`^(u3|u)\s*\(\s*(` + angleExprPattern + `)\s*,\s*(` + angleExprPattern + `)\s*,\s*(` + angleExprPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	measureRegex         = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[(\d+)\];?$`)
)

// QASM renders the operation log as OpenQASM 2.0.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", c.numQubits)

	for _, op := range c.ops {
		switch {
		case op.Type == "MEASURE":
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", op.Target, op.Cbit)
		case op.Type == "U" && len(op.Params) == 3:
			fmt.Fprintf(&sb, "u3(%s,%s,%s) q[%d];\n",
				FormatAngle(op.Params[0]), FormatAngle(op.Params[1]), FormatAngle(op.Params[2]), op.Target)
		case op.Control >= 0:
			name := strings.ToLower(op.Type)
			if len(op.Params) > 0 {
				fmt.Fprintf(&sb, "%s(%s) q[%d], q[%d];\n", name, FormatAngle(op.Params[0]), op.Control, op.Target)
			} else {
				fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", name, op.Control, op.Target)
			}
		case len(op.Params) > 0:
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", strings.ToLower(op.Type), FormatAngle(op.Params[0]), op.Target)
		default:
			name := strings.ToLower(op.Type)
			if name == "i" {
				name = "id"
			}
			fmt.Fprintf(&sb, "%s q[%d];\n", name, op.Target)
		}
	}

	return sb.String()
}

// LoadQASM builds a circuit from an OpenQASM 2.0 program and executes it.
// The supported subset covers the gates Circuit implements plus measure;
// barriers and comments are skipped.
func LoadQASM(src string, opts ...Option) (*Circuit, error) {
	var c *Circuit

	for n, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "barrier") ||
			cregRegex.MatchString(line) {
			continue
		}

		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			if c != nil {
				return nil, fmt.Errorf("line %d: %w: only one qreg is supported", n+1, ErrUnsupportedQASM)
			}
			size, _ := strconv.Atoi(matches[2])
			var err error
			if c, err = New(size, opts...); err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			continue
		}

		if c == nil {
			return nil, fmt.Errorf("line %d: %w: gate before qreg", n+1, ErrUnsupportedQASM)
		}
		if err := c.execQASMLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
	}

	if c == nil {
		return nil, fmt.Errorf("%w: missing qreg", ErrUnsupportedQASM)
	}
	c.Run()
	return c, nil
}

func (c *Circuit) execQASMLine(line string) error {
	// Measurement: "measure q[0] -> c[0];"
	if matches := measureRegex.FindStringSubmatch(line); matches != nil {
		q, _ := strconv.Atoi(matches[1])
		cbit, _ := strconv.Atoi(matches[3])
		_, err := c.MeasureTo(q, cbit)
		return err
	}

	if matches := u3Regex.FindStringSubmatch(line); matches != nil {
		var angles [3]float64
		for i := range angles {
			a, err := ParseAngle(matches[i+2])
			if err != nil {
				return err
			}
			angles[i] = a
		}
		target, _ := strconv.Atoi(matches[5])
		return c.U3(target, angles[0], angles[1], angles[2])
	}

	if matches := twoQubitParamRegex.FindStringSubmatch(line); matches != nil {
		theta, err := ParseAngle(matches[2])
		if err != nil {
			return err
		}
		control, _ := strconv.Atoi(matches[3])
		target, _ := strconv.Atoi(matches[4])
		if strings.ToLower(matches[1]) != "crx" {
			return fmt.Errorf("%w: %s", ErrUnsupportedQASM, line)
		}
		return c.CRX(control, target, theta)
	}

	if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
		control, _ := strconv.Atoi(matches[2])
		target, _ := strconv.Atoi(matches[3])
		switch strings.ToLower(matches[1]) {
		case "cx", "cnot":
			return c.CNOT(control, target)
		case "cz":
			return c.CZ(control, target)
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedQASM, line)
	}

	if matches := singleGateParamRegex.FindStringSubmatch(line); matches != nil {
		theta, err := ParseAngle(matches[2])
		if err != nil {
			return err
		}
		target, _ := strconv.Atoi(matches[3])
		switch strings.ToLower(matches[1]) {
		case "rx":
			return c.RX(target, theta)
		case "ry":
			return c.RY(target, theta)
		case "rz":
			return c.RZ(target, theta)
		case "p", "u1":
			return c.single(strings.ToUpper(matches[1]), target, Phase(theta), theta)
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedQASM, line)
	}

	if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
		target, _ := strconv.Atoi(matches[2])
		gates := map[string]func(int) error{
			"id": c.I, "i": c.I, "h": c.H, "x": c.X, "y": c.Y, "z": c.Z,
			"s": c.S, "sdg": c.Sdg, "t": c.T, "tdg": c.Tdg,
		}
		if apply, ok := gates[strings.ToLower(matches[1])]; ok {
			return apply(target)
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedQASM, line)
}
