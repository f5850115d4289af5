package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/extract"
	"github.com/spigell/role-readiness/internal/history"
	"github.com/spigell/role-readiness/internal/logger"
	"github.com/spigell/role-readiness/internal/readiness"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a skill profile against one role or rank all roles",
	Run: func(cmd *cobra.Command, _ []string) {
		assess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringSliceP("skills", "s", nil, "skills to assess (repeatable or comma separated)")
	assessCmd.Flags().StringP("skills-file", "f", "", "file with one skill per line")
	assessCmd.Flags().String("resume", "", "plain-text resume to extract skills from (requires ai.enabled)")
	assessCmd.Flags().StringP("role", "r", "", "assess a single role instead of ranking all roles")
	assessCmd.Flags().Bool("select-role", false, "pick the target role interactively")
	assessCmd.Flags().Bool("force-refresh", false, "ignore cached results")
	assessCmd.Flags().Bool("summary", false, "print one summary line per role instead of JSON")
}

// assess is the main command for the cli.
func assess(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the assessment", zap.String("version", version))

	engine, store, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("preparing the engine", zap.Error(err))
	}
	defer store.Close()

	flags := cmd.Flags()
	skillFlags, _ := flags.GetStringSlice("skills")
	skillsFile, _ := flags.GetString("skills-file")
	resumeFile, _ := flags.GetString("resume")
	role, _ := flags.GetString("role")
	selectRole, _ := flags.GetBool("select-role")
	forceRefresh, _ := flags.GetBool("force-refresh")
	summaryOnly, _ := flags.GetBool("summary")

	raw, input, err := collectSkills(ctx, config, skillFlags, skillsFile, resumeFile, logger)
	if err != nil {
		logger.Fatal("collecting skills", zap.Error(err))
	}

	if selectRole {
		role, err = promptRole(engine.Catalog().Roles())
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
	role = strings.TrimSpace(role)

	logger.Info("assessing skills",
		zap.Int("skills", len(raw)),
		zap.String("role", role),
		zap.Bool("force_refresh", forceRefresh),
	)

	start := time.Now()

	var (
		result      any
		assessments []readiness.RoleAssessment
	)

	if role != "" {
		single, err := engine.AssessRoleRaw(ctx, raw, role, forceRefresh)
		if err != nil {
			if errors.Is(err, readiness.ErrUnknownRole) {
				logger.Fatal("unknown role",
					zap.String("role", role),
					zap.Strings("known roles", engine.Catalog().Roles()),
				)
			}
			logger.Fatal("assessing role", zap.Error(err))
		}
		result = single
		assessments = []readiness.RoleAssessment{single.RoleAssessment}
	} else {
		all, err := engine.AssessRaw(ctx, raw, forceRefresh)
		if err != nil {
			logger.Fatal("assessing roles", zap.Error(err))
		}
		result = all
		assessments = all.MatchedRoles
	}

	took := time.Since(start)

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("marshal result", zap.Error(err))
	}

	if err := printResult(cmd.OutOrStdout(), payload, assessments, summaryOnly); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}

	recordHistory(ctx, config, logger, history.Entry{
		Input:           input,
		TargetRole:      role,
		ExtractedSkills: raw,
		MissingSkills:   missingSkillNames(assessments),
		Result:          payload,
		DurationSeconds: took.Seconds(),
	})
}

// collectSkills merges skills from flags, a skills file and an extracted
// resume, in that order. It also returns the text to record as input.
func collectSkills(ctx context.Context, config *Config, flagSkills []string, skillsFile, resumeFile string, logger *zap.Logger) ([]string, string, error) {
	raw := make([]string, 0, len(flagSkills))
	raw = append(raw, flagSkills...)
	inputs := make([]string, 0, 2)

	if skillsFile != "" {
		fromFile, err := readSkillsFile(skillsFile)
		if err != nil {
			return nil, "", err
		}
		raw = append(raw, fromFile...)
	}

	if len(raw) > 0 {
		inputs = append(inputs, strings.Join(raw, ", "))
	}

	if resumeFile != "" {
		text, err := os.ReadFile(resumeFile)
		if err != nil {
			return nil, "", fmt.Errorf("reading resume %q: %w", resumeFile, err)
		}

		extractor, err := newExtractor(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("skill extraction unavailable", zap.Error(err))
		}

		extracted := extract.Skills(ctx, extractor, string(text), logger)
		logger.Info("skills extracted from resume", zap.Strings("skills", extracted))

		raw = append(raw, extracted...)
		inputs = append(inputs, strings.TrimSpace(string(text)))
	}

	return raw, strings.Join(inputs, "\n\n"), nil
}

// readSkillsFile reads one skill per line. Blank lines and lines starting
// with '#' are skipped.
func readSkillsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening skills file: %w", err)
	}
	defer f.Close()

	skills := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skills = append(skills, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading skills file: %w", err)
	}

	return skills, nil
}

func promptRole(roles []string) (string, error) {
	rolePrompt := promptui.Select{
		Label: "Choose a target role and press ENTER",
		Items: roles,
		Size:  len(roles),
	}

	_, selected, err := rolePrompt.Run()
	return selected, err
}

func printResult(w io.Writer, payload []byte, assessments []readiness.RoleAssessment, summaryOnly bool) error {
	if summaryOnly {
		return printSummaries(w, assessments)
	}

	_, err := fmt.Fprintln(w, string(payload))
	return err
}

func printSummaries(w io.Writer, assessments []readiness.RoleAssessment) error {
	for _, a := range assessments {
		if _, err := fmt.Fprintln(w, readiness.Summary(a)); err != nil {
			return err
		}
	}
	return nil
}

// missingSkillNames lists the gaps of the best match.
func missingSkillNames(assessments []readiness.RoleAssessment) []string {
	if len(assessments) == 0 {
		return []string{}
	}

	names := make([]string, 0, len(assessments[0].MissingSkills))
	for _, m := range assessments[0].MissingSkills {
		names = append(names, m.Skill)
	}
	return names
}

func recordHistory(ctx context.Context, config *Config, logger *zap.Logger, entry history.Entry) {
	store, err := openHistory(config.History)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	stored, err := store.Record(ctx, entry)
	if err != nil {
		logger.Warn("recording history", zap.Error(err))
		return
	}

	logger.Debug("assessment recorded",
		zap.String("session_id", stored.ID),
		zap.Duration("took", time.Duration(entry.DurationSeconds*float64(time.Second))),
	)
}
