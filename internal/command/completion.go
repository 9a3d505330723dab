// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/pagediff/internal/meta"
)

const bashCompletionScript = `# bash completion for pagediff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_pagediff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "capture compare diff history completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local store="--store --history-dir --db --bucket --prefix --region --endpoint"
    local fetch="--browser -b --header -H --retries --timeout --as --utc"
    local diff="--strategy --max-cells --normalize --output -o --color -c --out"

    case "$cmd" in
        capture)
            local opts="$store $fetch --skip-unchanged"
            ;;
        compare)
            local opts="$store $fetch $diff --baseline --pick -p --save"
            ;;
        diff)
            local opts="$store $diff --page --pick -p"
            ;;
        history)
            local opts="$store --as --limit -l --padding --sort -s --titles -t --output -o --color -c --out"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text html json yaml" -- "$cur") )
            return 0
            ;;
        --color|-c)
            COMPREPLY=( $(compgen -W "auto always never" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "local s3 sqlite" -- "$cur") )
            return 0
            ;;
        --strategy)
            COMPREPLY=( $(compgen -W "external internal" -- "$cur") )
            return 0
            ;;
        --normalize)
            COMPREPLY=( $(compgen -W "text markup" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Pages may be local files
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _pagediff pagediff
`

const zshCompletionScript = `#compdef pagediff

_pagediff() {
  local -a cmds
  cmds=(
    'capture:save a page as the new baseline'
    'compare:compare a page against its baseline'
    'diff:compare two snapshots or files'
    'history:list the saved snapshots of a page'
    'completion:generate shell completion script'
  )

  local -a store fetch diff
  store=(
    '--store[history store]:store:(local s3 sqlite)'
    '--history-dir[local store directory]:dir:_directories'
    '--db[sqlite database]:file:_files'
    '--bucket[s3 bucket]:bucket'
    '--prefix[s3 key prefix]:prefix'
    '--region[s3 region]:region'
    '--endpoint[s3 endpoint]:url'
  )
  fetch=(
    '(-b --browser)'{-b,--browser}'[render in headless Chrome]'
    '*'{-H,--header}'[extra request header]:header'
    '--retries[HTTP retries]:retries'
    '--timeout[fetch timeout]:duration'
    '--as[record under this name]:name'
    '--utc[show UTC timestamps]'
  )
  diff=(
    '--strategy[line diff strategy]:strategy:(external internal)'
    '--max-cells[LCS table limit]:cells'
    '--normalize[normalization]:mode:(text markup)'
    '(-o --output)'{-o,--output}'[output format]:format:(text html json yaml)'
    '(-c --color)'{-c,--color}'[color mode]:mode:(auto always never)'
    '--out[output file]:file:_files'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'pagediff commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    capture)
      _arguments -C $store $fetch \
        '--skip-unchanged[skip unchanged pages]' \
        '1:page:_files'
      ;;
    compare)
      _arguments -C $store $fetch $diff \
        '--baseline[baseline spec]:spec' \
        '(-p --pick)'{-p,--pick}'[choose the baseline]' \
        '--save[save when changed]' \
        '1:page:_files'
      ;;
    diff)
      _arguments -C $store $diff \
        '--page[page history]:page' \
        '(-p --pick)'{-p,--pick}'[choose both snapshots]' \
        '1:baseline:_files' \
        '2:current:_files'
      ;;
    history)
      _arguments -C $store \
        '--as[page name]:name' \
        '(-l --limit)'{-l,--limit}'[limit results]:limit' \
        '--padding[column padding]:padding' \
        '(-s --sort)'{-s,--sort}'[sort columns]:columns' \
        '(-t --titles)'{-t,--titles}'[show titles]' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '(-c --color)'{-c,--color}'[color mode]:mode:(auto always never)' \
        '--out[output file]:file:_files' \
        '1:page:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _pagediff pagediff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(stderr(cmd), "usage: pagediff completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "pagediff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
