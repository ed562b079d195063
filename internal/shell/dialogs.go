package shell

const InfoTitle = "About Parameters"

const InfoText = `1. Cost: Packaging cost. Lower is better.
2. Durability: Strength to protect contents. Higher is better.
3. Environmental Impact: Harm to environment. Lower is better.
4. Reusability: Can it be reused again? Higher is better.
All are normalized between 0 and 1 to compare fairly.`

const FormulaTitle = "Score Formula"

const FormulaText = `SCORE = (Normalized Cost x Weight1)
      + (Normalized Durability x Weight2)
      + (Normalized Environmental Impact x Weight3)
      + (Normalized Reusability x Weight4)

Note:
- Cost & Environmental Impact are negated before normalization because lower is better.
- All values are scaled to [0,1] range using Min-Max normalization.
- A parameter with the same value for every option scores 0.5 for all of them.`

const helpText = `commands:
  set <criterion> <value>   move a weight slider (cost, durability, env, reuse; 0..1)
  chart <kind>              switch chart: bar, stacked, bubble, line
  table                     show every option with normalized values and score
  explain <name>            score breakdown for one option
  weights                   show slider positions
  reset                     restore default weights
  info                      about the parameters
  formula                   how the score is computed
  help                      this text
  quit                      exit`
