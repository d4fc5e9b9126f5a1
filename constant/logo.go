package constant

// Logo is the banner shown in the root command help.
const Logo = `                 ____          __
 _   ______  ____/ / /_  __  __/ /_
| | / / __ \/ __  / __ \/ / / / __ \
| |/ / /_/ / /_/ / / / / /_/ / /_/ /
|___/\____/\__,_/_/ /_/\__,_/_.___/`
