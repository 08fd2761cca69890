// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/meta"
)

const bashCompletionScript = `# bash completion for pgdrift
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_pgdrift()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "dq rq snap sq tq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t --tldr"

    case "$cmd" in
    dq)
      local opts="$common --schema --dir -d --no-report --passphrase -p --region"
            ;;
        rq)
      local opts="$common --schema"
            ;;
        si)
            local opts="$common --passphrase -p --region --sv"
            ;;
        snap)
      local opts="$common --dir -d --encrypt --passphrase -p --region"
            ;;
        sq)
      local opts="$common --schema --diff --diff_filter --passphrase -p --pick --region --sv --tables"
            ;;
        tq)
      local opts="$common --schema"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

  # If current token starts with '-', offer flags
  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # Otherwise, we're on a SOURCE positional — complete files and directories
  COMPREPLY=( $(compgen -o default -- "$cur") )
  return 0
}

complete -F _pgdrift pgdrift
`

const zshCompletionScript = `#compdef pgdrift

_pgdrift() {
  local -a cmds
  cmds=(
    'dq:drift query'
    'rq:report query'
    'si:interactive snapshot inspector'
    'snap:capture snapshots'
    'sq:snapshot query'
    'tq:target query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[show local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[padding between columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'pgdrift commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    dq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '(-d --dir)'{-d,--dir}'[report directory]:dir:_directories' \
        '--no-report[skip the CSV report file]' \
        '(-p --passphrase)'{-p,--passphrase}'[snapshot passphrase]' \
        '--region[AWS region]' \
        '*::SOURCE:_files'
      ;;
    rq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '::report-file:_files'
      ;;
    si)
      _arguments -C \
        $common \
        '(-p --passphrase)'{-p,--passphrase}'[snapshot passphrase]' \
        '--region[AWS region]' \
        '--sv[snapshot version]' \
        '::SOURCE:_files'
      ;;
    snap)
      _arguments -C \
        $common \
        '(-d --dir)'{-d,--dir}'[snapshot directory]:dir:_directories' \
        '--encrypt[seal snapshot files]' \
        '(-p --passphrase)'{-p,--passphrase}'[snapshot passphrase]' \
        '--region[AWS region]' \
        '*::SOURCE:_files'
      ;;
    sq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--diff[find difference between snapshot captures]' \
        '--pick[interactively pick the captures to diff]' \
        '(-p --passphrase)'{-p,--passphrase}'[snapshot passphrase]' \
        '--region[AWS region]' \
        '--sv[snapshot version to query]' \
        '--tables[one row per table]' \
        '::SOURCE:_files'
      ;;
    tq)
      _arguments -C \
        $common \
        '--schema[dump schema]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _pgdrift pgdrift pgdrift
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: pgdrift completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "pgdrift completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
