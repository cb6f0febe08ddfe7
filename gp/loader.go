package gp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/kernel"
	"github.com/YuminosukeSato/krigo/mean"
	"github.com/YuminosukeSato/krigo/pkg/errors"
	"github.com/YuminosukeSato/krigo/pkg/log"
)

// ModelFileExt is the conventional extension of persisted model files.
const ModelFileExt = ".model"

// LoadFromFile reads a persisted model file produced by the external
// hyperparameter-fitting program and constructs a Model from it.
func LoadFromFile(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open model file %s", path)
	}
	defer file.Close()

	return loadFromReader(file, path)
}

// LoadFromString parses a persisted model from an in-memory string.
func LoadFromString(s string) (*Model, error) {
	return loadFromReader(strings.NewReader(s), "")
}

// LoadFromReader parses a persisted model from an io.Reader.
func LoadFromReader(r io.Reader) (*Model, error) {
	return loadFromReader(r, "")
}

// parseState enumerates the states of the line-oriented parser. The file
// is a flat sequence of metadata lines and bracketed sections; each
// section switches the parser into a state that knows how many header
// lines to skip and what the data lines look like.
type parseState int

const (
	stateMetadata parseState = iota
	stateMeanHeader
	stateMeanValue
	stateKernelType
	stateKernelHeader
	stateKernelData
	stateXBlock
	stateYBlock
)

// modelFileParser accumulates parsed fields until finalize assembles them
// into a Model.
type modelFileParser struct {
	path string
	line int

	state parseState

	system   string
	atom     string
	property string

	nugget    float64
	nuggetSet bool
	nfeats    int
	nfeatsSet bool
	ntrain    int
	ntrainSet bool

	meanValue float64
	meanSet   bool

	composition string
	kernels     map[string]kernel.Kernel

	// Pending kernel section being parsed.
	kernelName string
	kernelKind string
	skipLines  int

	xRows [][]float64
	yVals []float64
}

func loadFromReader(r io.Reader, path string) (*Model, error) {
	p := &modelFileParser{
		path:    path,
		kernels: make(map[string]kernel.Kernel),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.consume(strings.TrimRight(scanner.Text(), "\r\n")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %s", path)
	}

	model, err := p.finalize()
	if err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("gp.loader")
	logger.Debug("model loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SystemKey, model.System(),
		log.AtomKey, model.Atom(),
		log.PropertyKey, model.Property(),
		log.TrainingPointsKey, model.NTrain(),
		log.FeaturesKey, model.NFeatures(),
		log.NuggetKey, model.Nugget(),
		log.CompositionKey, model.Kernel().Composition(),
	)
	return model, nil
}

// consume feeds one line to the state machine.
func (p *modelFileParser) consume(line string) error {
	switch p.state {
	case stateMetadata:
		return p.consumeMetadata(line)
	case stateMeanHeader:
		p.state = stateMeanValue
		return nil
	case stateMeanValue:
		return p.consumeMeanValue(line)
	case stateKernelType:
		return p.consumeKernelType(line)
	case stateKernelHeader:
		p.skipLines--
		if p.skipLines == 0 {
			p.state = stateKernelData
		}
		return nil
	case stateKernelData:
		return p.consumeKernelData(line)
	case stateXBlock:
		return p.consumeXRow(line)
	case stateYBlock:
		return p.consumeYValue(line)
	}
	return errors.NewModelParseError(p.path, "internal", p.line, fmt.Sprintf("unknown parser state %d", p.state))
}

func (p *modelFileParser) consumeMetadata(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		switch {
		case trimmed == "[mean]":
			p.state = stateMeanHeader
		case strings.HasPrefix(trimmed, "[kernel."):
			p.kernelName = strings.TrimSuffix(strings.TrimPrefix(trimmed, "[kernel."), "]")
			if p.kernelName == "" {
				return errors.NewModelParseError(p.path, trimmed, p.line, "empty kernel name")
			}
			p.state = stateKernelType
		case trimmed == "[training_data.x]":
			p.state = stateXBlock
		case trimmed == "[training_data.y]":
			p.state = stateYBlock
		default:
			// Unrecognized sections (e.g. [weights]) are skipped; their
			// body lines fall through the metadata state harmlessly.
		}
		return nil
	}

	fields := strings.Fields(trimmed)
	key := fields[0]
	value := func(idx int) (string, error) {
		if idx >= len(fields) {
			return "", errors.NewModelParseError(p.path, key, p.line, "missing value")
		}
		return fields[idx], nil
	}

	switch key {
	case "name":
		v, err := value(1)
		if err != nil {
			return err
		}
		p.system = v
	case "atom":
		v, err := value(1)
		if err != nil {
			return err
		}
		p.atom = v
	case "property":
		v, err := value(1)
		if err != nil {
			return err
		}
		p.property = v
	case "nugget":
		f, err := p.parseFloat(key, fields[len(fields)-1])
		if err != nil {
			return err
		}
		p.nugget = f
		p.nuggetSet = true
	case "number_of_features":
		v, err := value(1)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.NewModelParseError(p.path, key, p.line, fmt.Sprintf("invalid feature count %q", v))
		}
		p.nfeats = n
		p.nfeatsSet = true
	case "number_of_training_points":
		v, err := value(1)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.NewModelParseError(p.path, key, p.line, fmt.Sprintf("invalid training point count %q", v))
		}
		p.ntrain = n
		p.ntrainSet = true
	case "composition":
		p.composition = fields[len(fields)-1]
	default:
		// Unknown metadata keys are ignored, matching the tolerant
		// behavior expected of fitting-program output.
	}
	return nil
}

func (p *modelFileParser) consumeMeanValue(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return errors.NewModelParseError(p.path, "[mean]", p.line, "expected a label and a value")
	}
	f, err := p.parseFloat("[mean]", fields[1])
	if err != nil {
		return err
	}
	p.meanValue = f
	p.meanSet = true
	p.state = stateMetadata
	return nil
}

func (p *modelFileParser) consumeKernelType(line string) error {
	section := "[kernel." + p.kernelName + "]"
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return errors.NewModelParseError(p.path, section, p.line, "missing kernel type")
	}

	p.kernelKind = fields[len(fields)-1]
	switch p.kernelKind {
	case kernel.KindRBF:
		p.skipLines = 1
	case kernel.KindRBFCyclic, "rbf-cylic": // misspelling in FEREBUS 7.0 output
		p.skipLines = 3
	default:
		return errors.NewModelParseError(p.path, section, p.line, fmt.Sprintf("unsupported kernel type %q", p.kernelKind))
	}
	p.state = stateKernelHeader
	return nil
}

func (p *modelFileParser) consumeKernelData(line string) error {
	section := "[kernel." + p.kernelName + "]"
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return errors.NewModelParseError(p.path, section, p.line, "expected a label and at least one lengthscale")
	}

	// The first token is a label emitted by the fitting program.
	lengthscales := make([]float64, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		f, err := p.parseFloat(section, tok)
		if err != nil {
			return err
		}
		lengthscales = append(lengthscales, f)
	}

	switch p.kernelKind {
	case kernel.KindRBF:
		p.kernels[p.kernelName] = kernel.NewRBF(lengthscales)
	default:
		p.kernels[p.kernelName] = kernel.NewRBFCyclic(lengthscales)
	}
	p.state = stateMetadata
	return nil
}

func (p *modelFileParser) consumeXRow(line string) error {
	if strings.TrimSpace(line) == "" {
		p.state = stateMetadata
		return nil
	}

	fields := strings.Fields(line)
	row := make([]float64, 0, len(fields))
	for _, tok := range fields {
		f, err := p.parseFloat("[training_data.x]", tok)
		if err != nil {
			return err
		}
		row = append(row, f)
	}
	p.xRows = append(p.xRows, row)
	return nil
}

func (p *modelFileParser) consumeYValue(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		p.state = stateMetadata
		return nil
	}

	if len(strings.Fields(trimmed)) != 1 {
		return errors.NewModelParseError(p.path, "[training_data.y]", p.line, "expected exactly one value per line")
	}
	f, err := p.parseFloat("[training_data.y]", trimmed)
	if err != nil {
		return err
	}
	p.yVals = append(p.yVals, f)
	return nil
}

func (p *modelFileParser) parseFloat(section, tok string) (float64, error) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, errors.NewModelParseError(p.path, section, p.line, fmt.Sprintf("invalid float %q", tok))
	}
	return f, nil
}

// finalize checks that every required section was seen, validates counts
// and assembles the Model.
func (p *modelFileParser) finalize() (*Model, error) {
	switch p.state {
	case stateMetadata, stateXBlock, stateYBlock:
		// Blocks may legitimately be terminated by EOF instead of a
		// blank line.
	default:
		return nil, errors.NewModelParseError(p.path, "eof", p.line, "file ends inside a section")
	}

	if !p.nfeatsSet {
		return nil, errors.NewModelParseError(p.path, "number_of_features", 0, "missing")
	}
	if !p.ntrainSet {
		return nil, errors.NewModelParseError(p.path, "number_of_training_points", 0, "missing")
	}
	if p.composition == "" {
		return nil, errors.NewModelParseError(p.path, "composition", 0, "missing")
	}
	if len(p.kernels) == 0 {
		return nil, errors.NewModelParseError(p.path, "[kernel]", 0, "no kernel sections")
	}
	if !p.meanSet {
		return nil, errors.NewModelParseError(p.path, "[mean]", 0, "missing")
	}
	if len(p.xRows) != p.ntrain {
		return nil, errors.NewModelParseError(p.path, "[training_data.x]", 0,
			fmt.Sprintf("expected %d rows, got %d", p.ntrain, len(p.xRows)))
	}
	if len(p.yVals) != p.ntrain {
		return nil, errors.NewModelParseError(p.path, "[training_data.y]", 0,
			fmt.Sprintf("expected %d values, got %d", p.ntrain, len(p.yVals)))
	}

	xData := make([]float64, 0, p.ntrain*p.nfeats)
	for i, row := range p.xRows {
		if len(row) != p.nfeats {
			return nil, errors.NewModelParseError(p.path, "[training_data.x]", 0,
				fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), p.nfeats))
		}
		xData = append(xData, row...)
	}

	composite, err := kernel.ParseComposition(p.composition, p.kernels, p.nfeats)
	if err != nil {
		if p.path != "" {
			return nil, errors.Wrapf(err, "model %s", p.path)
		}
		return nil, err
	}

	nugget := p.nugget
	if !p.nuggetSet {
		nugget = DefaultNugget
	}

	return NewModel(ModelParams{
		System:   p.system,
		Atom:     p.atom,
		Property: p.property,
		Nugget:   nugget,
		Mean:     mean.NewConstant(p.meanValue),
		Kernel:   composite,
		X:        mat.NewDense(p.ntrain, p.nfeats, xData),
		Y:        mat.NewVecDense(p.ntrain, p.yVals),
	})
}
